package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopStoreHooks{}
	s.OnMutation("create_component", "UI", 1)
	s.OnRejected("create_component", "UI", errors.New("duplicate"))

	l := NoopLayoutHooks{}
	l.OnLayoutStart("graph", 3)
	l.OnLayoutComplete("graph", 3, time.Millisecond)

	sm := NoopSmellHooks{}
	sm.OnScan(3, 1, time.Millisecond)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/v1/graph")
	h.OnResponse(ctx, "GET", "/api/v1/graph", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Smell().(NoopSmellHooks); !ok {
		t.Error("Smell() should return NoopSmellHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customSmell := &testSmellHooks{}
	SetSmellHooks(customSmell)
	if Smell() != customSmell {
		t.Error("SetSmellHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testStoreHooks{}
	SetStoreHooks(custom)

	// Setting nil should be ignored
	SetStoreHooks(nil)

	if Store() != custom {
		t.Error("SetStoreHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testStoreHooks struct{ NoopStoreHooks }
type testLayoutHooks struct{ NoopLayoutHooks }
type testSmellHooks struct{ NoopSmellHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
