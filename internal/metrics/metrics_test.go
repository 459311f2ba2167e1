package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSource struct{}

func (fakeSource) TaskCount() uint8        { return 3 }
func (fakeSource) TickCount() uint32       { return 42 }
func (fakeSource) ContextSwitches() uint64 { return 7 }
func (fakeSource) Preemptions() uint64     { return 1 }
func (fakeSource) CriticalNesting() uint32 { return 0 }

type fakeQueue struct{ n int }

func (f fakeQueue) QueueLen() int { return f.n }

func TestHandlerServesRegisteredGauges(t *testing.T) {
	reg := NewRegistry(fakeSource{}, fakeQueue{n: 5})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	reg.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.Contains(t, body, "v4rtos_task_count 3")
	require.Contains(t, body, "v4rtos_tick_count 42")
	require.Contains(t, body, "v4rtos_context_switches_total 7")
	require.Contains(t, body, "v4rtos_queue_depth 5")
}
