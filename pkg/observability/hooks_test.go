package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBuildHooks{}
	b.OnBuildStart(ctx, "scatter")
	b.OnBuildComplete(ctx, "scatter", 1, time.Second, nil)

	v := NoopValidationHooks{}
	v.OnViolation(ctx, "sankey.arrangement")
	v.OnDeprecation(ctx, "scatter_mapbox")

	p := NoopPipelineHooks{}
	p.OnSpecLoad(ctx, "bar", time.Second, nil)
	p.OnRenderStart(ctx, []string{"html"})
	p.OnRenderComplete(ctx, []string{"html"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "figure")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/schema")
	h.OnResponse(ctx, "GET", "/api/schema", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Build() should return NoopBuildHooks by default")
	}
	if _, ok := Validation().(NoopValidationHooks); !ok {
		t.Error("Validation() should return NoopValidationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customBuild := &testBuildHooks{}
	SetBuildHooks(customBuild)
	if Build() != customBuild {
		t.Error("SetBuildHooks should set custom hooks")
	}

	customValidation := &testValidationHooks{}
	SetValidationHooks(customValidation)
	if Validation() != customValidation {
		t.Error("SetValidationHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Build().(NoopBuildHooks); !ok {
		t.Error("Reset() should restore NoopBuildHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBuildHooks{}
	SetBuildHooks(custom)

	// Setting nil should be ignored
	SetBuildHooks(nil)

	if Build() != custom {
		t.Error("SetBuildHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testBuildHooks struct{ NoopBuildHooks }
type testValidationHooks struct{ NoopValidationHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
