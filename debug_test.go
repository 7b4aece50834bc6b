package garmin

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basincreek/gogarmin/internal/config"
	"github.com/basincreek/gogarmin/internal/datatype"
	"github.com/basincreek/gogarmin/internal/link"
	"github.com/basincreek/gogarmin/internal/testutil"
)

func openTestSession(t *testing.T, toRecv ...link.Packet) (*Session, *link.MockLink) {
	t.Helper()
	l := link.NewMockLink(productionReplyPacket(t, 13, 100))
	sess, err := Open(l, openTestCatalog(t), config.DefaultSessionOptions())
	require.NoError(t, err)
	l.QueueReceive(toRecv...)
	return sess, l
}

func TestAttachDebugRoutesInfoReturnsNegotiatedState(t *testing.T) {
	t.Parallel()

	sess, _ := openTestSession(t)
	mux := http.NewServeMux()
	sess.AttachDebugRoutes(mux)

	req := testutil.NewTestRequest(http.MethodGet, "/debug/info")
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var body struct {
		Product struct {
			ProductID uint16 `json:"ProductID"`
		} `json:"product"`
	}
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	testutil.AssertNoError(t, err)
	if body.Product.ProductID != 13 {
		t.Errorf("product_id = %d, want 13", body.Product.ProductID)
	}
}

func TestAttachDebugRoutesPVTStreamsDecodedFixesAsSSE(t *testing.T) {
	t.Parallel()

	fix, err := datatype.EncodeD800(datatype.PVT{Fix: 3})
	require.NoError(t, err)

	sess, _ := openTestSession(t, link.Packet{ID: datatype.PidPVT, Payload: fix})
	mux := http.NewServeMux()
	sess.AttachDebugRoutes(mux)

	req := testutil.NewTestRequest(http.MethodGet, "/debug/pvt")
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if !rec.Flushed {
		t.Error("handler never flushed the response")
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, ": ping\n\n") {
		t.Errorf("body missing leading SSE comment: %q", body)
	}
	if !strings.Contains(body, `"Fix":3`) {
		t.Errorf("body missing decoded fix: %q", body)
	}
	if !strings.Contains(body, "event: error\ndata: EOF\n\n") {
		t.Errorf("body missing terminal error event once the mock device queue drains: %q", body)
	}
}

func TestAttachDebugRoutesPVTRejectsNonGET(t *testing.T) {
	t.Parallel()

	sess, _ := openTestSession(t)
	mux := http.NewServeMux()
	sess.AttachDebugRoutes(mux)

	req := testutil.NewTestRequest(http.MethodPost, "/debug/pvt")
	rec := testutil.NewTestRecorder()
	mux.ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}
