package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRequestHooks{}
	r.OnRequestStart(ctx, "GET", "/")
	r.OnRequestComplete(ctx, "GET", "/", 200, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "version")
	c.OnCacheMiss(ctx, "version")
	c.OnCacheSet(ctx, "version", 16)

	NoopRenderHooks{}.OnRender(ctx, 3, time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Request().(NoopRequestHooks); !ok {
		t.Error("Request() should return NoopRequestHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}

	req := &testRequestHooks{}
	SetRequestHooks(req)
	if Request() != req {
		t.Error("SetRequestHooks should set custom hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	render := &testRenderHooks{}
	SetRenderHooks(render)
	if Render() != render {
		t.Error("SetRenderHooks should set custom hooks")
	}

	// nil keeps the current hooks
	SetRequestHooks(nil)
	if Request() != req {
		t.Error("SetRequestHooks(nil) should not replace hooks")
	}

	Reset()
	if _, ok := Request().(NoopRequestHooks); !ok {
		t.Error("Reset should restore NoopRequestHooks")
	}
}

type testRequestHooks struct{ NoopRequestHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testRenderHooks struct{ NoopRenderHooks }
