package asset

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/errors"
)

func testLibrary(t *testing.T, name string, files ...string) *Library {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{Data: []byte("/* " + f + " */")}
	}
	lib, err := NewLibrary(name, fsys)
	if err != nil {
		t.Fatalf("NewLibrary(%q): %v", name, err)
	}
	return lib
}

func mustResource(t *testing.T, lib *Library, path string, opts ...ResourceOption) *Resource {
	t.Helper()
	r, err := NewResource(lib, path, opts...)
	if err != nil {
		t.Fatalf("NewResource(%q): %v", path, err)
	}
	return r
}

func TestNewLibraryErrors(t *testing.T) {
	if _, err := NewLibrary("bad.name", fstest.MapFS{}); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("NewLibrary(bad.name) = %v, want INVALID_NAME", err)
	}
	if _, err := NewLibrary("ok", nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewLibrary(nil fs) = %v, want CONFIGURATION", err)
	}
}

func TestNewResource(t *testing.T) {
	lib := testLibrary(t, "jquery", "jquery.js")

	tests := []struct {
		name string
		path string
		opts []ResourceOption
		code errors.Code
	}{
		{name: "unknown extension", path: "readme.txt", code: errors.ErrCodeInvalidResource},
		{name: "traversal", path: "../x.js", code: errors.ErrCodeInvalidPath},
		{name: "variant extension mismatch", path: "a.js", opts: []ResourceOption{Minified("a.min.css")}, code: errors.ErrCodeInvalidResource},
		{name: "ok", path: "jquery.js", opts: []ResourceOption{Minified("jquery.min.js"), Bottom()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResource(lib, tt.path, tt.opts...)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("NewResource = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewResource: %v", err)
			}
			if r.Kind() != KindJS || !r.IsBottom() {
				t.Errorf("resource = kind %v bottom %v", r.Kind(), r.IsBottom())
			}
			if r.String() != "jquery:jquery.js" {
				t.Errorf("String() = %q", r.String())
			}
		})
	}

	if _, err := NewResource(lib, "jquery.js"); !errors.Is(err, errors.ErrCodeInvalidResource) {
		t.Errorf("duplicate declaration = %v, want INVALID_RESOURCE", err)
	}
	if _, err := NewResource(nil, "x.js"); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("nil library = %v, want CONFIGURATION", err)
	}
}

func TestPathFor(t *testing.T) {
	lib := testLibrary(t, "lib")
	r := mustResource(t, lib, "app.js", Minified("app.min.js"), Debug("app.debug.js"))
	plain := mustResource(t, lib, "plain.js")

	if got := r.PathFor(ModeMinified); got != "app.min.js" {
		t.Errorf("PathFor(minified) = %q", got)
	}
	if got := r.PathFor(ModeDebug); got != "app.debug.js" {
		t.Errorf("PathFor(debug) = %q", got)
	}
	if got := plain.PathFor(ModeMinified); got != "plain.js" {
		t.Errorf("PathFor(minified) without variant = %q", got)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	lib := testLibrary(t, "jquery")
	jq := mustResource(t, lib, "jquery.js")
	reg.Add(lib)

	got, err := reg.LookupRef("jquery:jquery.js")
	if err != nil || got != jq {
		t.Fatalf("LookupRef = %v, %v", got, err)
	}
	if _, err := reg.Lookup("missing", "x.js"); !errors.Is(err, errors.ErrCodeLibraryNotFound) {
		t.Errorf("Lookup(missing lib) = %v", err)
	}
	if _, err := reg.Lookup("jquery", "x.js"); !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("Lookup(missing res) = %v", err)
	}
	if _, err := reg.LookupRef("no-colon"); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("LookupRef(no colon) = %v", err)
	}

	clone := reg.Clone()
	clone.Add(testLibrary(t, "extra"))
	if _, ok := reg.Library("extra"); ok {
		t.Error("Clone should not share additions")
	}
	if _, ok := clone.Library("jquery"); !ok {
		t.Error("Clone should keep existing libraries")
	}
}

func TestChildRegistry(t *testing.T) {
	parent := NewRegistry()
	parent.Add(testLibrary(t, "jquery"))
	parent.Add(testLibrary(t, "shared"))

	child := NewChildRegistry(parent)
	own := testLibrary(t, "shared")
	child.Add(own)
	child.Add(testLibrary(t, "app"))

	if _, ok := child.Library("jquery"); !ok {
		t.Error("child should fall back to parent")
	}
	if got, _ := child.Library("shared"); got != own {
		t.Error("child library should shadow parent")
	}
	var names []string
	for _, lib := range child.Libraries() {
		names = append(names, lib.Name())
	}
	if got := strings.Join(names, " "); got != "shared app jquery" {
		t.Errorf("Libraries() = %q, want %q", got, "shared app jquery")
	}

	parent.Add(testLibrary(t, "late"))
	if _, ok := child.Clone().Library("late"); !ok {
		t.Error("clone should keep the parent")
	}
}

func TestOptions(t *testing.T) {
	if got := (Options{}).Signature(); got != DefaultSignature {
		t.Errorf("Signature() = %q, want %q", got, DefaultSignature)
	}
	if got := (Options{PublisherSignature: "custom"}).Signature(); got != "custom" {
		t.Errorf("Signature() = %q", got)
	}
	if err := (Options{Minified: true, Debug: true}).Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate(minified+debug) = %v", err)
	}
	if err := (Options{PublisherSignature: "a/b"}).Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate(bad signature) = %v", err)
	}
	if err := (Options{}).Validate(); err != nil {
		t.Errorf("Validate(zero) = %v", err)
	}
}

func TestNeededOrdering(t *testing.T) {
	lib := testLibrary(t, "ui")
	jq := mustResource(t, lib, "jquery.js")
	widgets := mustResource(t, lib, "widgets.js", DependsOn(jq))
	theme := mustResource(t, lib, "theme.css")
	app := mustResource(t, lib, "app.js", DependsOn(widgets, NewGroup(theme)))

	n := NewNeeded(Options{}, nil)
	if err := n.Need(app, jq); err != nil {
		t.Fatalf("Need: %v", err)
	}
	got, err := n.Resources()
	if err != nil {
		t.Fatalf("Resources: %v", err)
	}
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Path())
	}
	want := "theme.css jquery.js widgets.js app.js"
	if strings.Join(ids, " ") != want {
		t.Errorf("Resources = %v, want %v", ids, want)
	}
}

func TestNeededRender(t *testing.T) {
	ctx := context.Background()
	lib := testLibrary(t, "ui")
	jq := mustResource(t, lib, "jquery.js", Bottom())
	theme := mustResource(t, lib, "theme.css")
	app := mustResource(t, lib, "app.js", DependsOn(jq), Bottom())
	head := mustResource(t, lib, "head.js", DependsOn(jq))

	t.Run("empty", func(t *testing.T) {
		top, bottom, err := NewNeeded(Options{}, nil).Render(ctx)
		if err != nil || top != "" || bottom != "" {
			t.Errorf("Render = %q, %q, %v; want empty", top, bottom, err)
		}
	})

	t.Run("everything on top by default", func(t *testing.T) {
		n := NewNeeded(Options{}, nil)
		_ = n.Need(app, theme)
		top, bottom, err := n.Render(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := `<link rel="stylesheet" type="text/css" href="/fanstatic/ui/theme.css" />` + "\n" +
			`<script type="text/javascript" src="/fanstatic/ui/jquery.js"></script>` + "\n" +
			`<script type="text/javascript" src="/fanstatic/ui/app.js"></script>`
		if top != want {
			t.Errorf("top =\n%s\nwant\n%s", top, want)
		}
		if bottom != "" {
			t.Errorf("bottom = %q, want empty", bottom)
		}
	})

	t.Run("bottom scripts", func(t *testing.T) {
		n := NewNeeded(Options{Bottom: true}, nil)
		_ = n.Need(app, theme)
		top, bottom, _ := n.Render(ctx)
		if strings.Contains(top, ".js") || !strings.Contains(top, "theme.css") {
			t.Errorf("top = %q", top)
		}
		if strings.Count(bottom, "<script") != 2 {
			t.Errorf("bottom = %q", bottom)
		}
	})

	t.Run("head dependency pulls bottom script up", func(t *testing.T) {
		n := NewNeeded(Options{Bottom: true}, nil)
		_ = n.Need(head)
		top, bottom, _ := n.Render(ctx)
		if !strings.Contains(top, "jquery.js") || !strings.Contains(top, "head.js") || bottom != "" {
			t.Errorf("top = %q, bottom = %q", top, bottom)
		}
	})

	t.Run("force bottom", func(t *testing.T) {
		n := NewNeeded(Options{ForceBottom: true}, nil)
		_ = n.Need(head, theme)
		top, bottom, _ := n.Render(ctx)
		if strings.Contains(top, "<script") || strings.Count(bottom, "<script") != 2 {
			t.Errorf("top = %q, bottom = %q", top, bottom)
		}
	})

	t.Run("signature base url and minified", func(t *testing.T) {
		lib := testLibrary(t, "min")
		r := mustResource(t, lib, "x.js", Minified("x.min.js"))
		n := NewNeeded(Options{PublisherSignature: "custom", BaseURL: "https://cdn.example.com/", Minified: true}, nil)
		_ = n.Need(r)
		top, _, _ := n.Render(ctx)
		if !strings.Contains(top, `src="https://cdn.example.com/custom/min/x.min.js"`) {
			t.Errorf("top = %q", top)
		}
	})
}

func TestNeededDeduplicates(t *testing.T) {
	lib := testLibrary(t, "ui")
	jq := mustResource(t, lib, "jquery.js")
	n := NewNeeded(Options{}, nil)
	_ = n.Need(jq, jq, NewGroup(jq))
	top, _, _ := n.Render(context.Background())
	if strings.Count(top, "jquery.js") != 1 {
		t.Errorf("top = %q, want one reference", top)
	}
}

func TestNeededClosed(t *testing.T) {
	lib := testLibrary(t, "ui")
	jq := mustResource(t, lib, "jquery.js")
	n := NewNeeded(Options{}, nil)
	n.Close("already rendered")
	n.Close("ignored")
	err := n.Need(jq)
	if !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Fatalf("Need after Close = %v, want INVALID_STATE", err)
	}
	if !strings.Contains(err.Error(), "already rendered") {
		t.Errorf("error should carry the first close reason: %v", err)
	}
}

func TestNeedFromContext(t *testing.T) {
	lib := testLibrary(t, "ui")
	jq := mustResource(t, lib, "jquery.js")

	if err := jq.Need(context.Background()); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Need without Needed = %v, want INVALID_STATE", err)
	}

	n := NewNeeded(Options{}, nil)
	ctx := WithNeeded(context.Background(), n)
	if err := NewGroup(jq).Need(ctx); err != nil {
		t.Fatalf("Group.Need: %v", err)
	}
	if !n.HasResources() {
		t.Error("group need should reach the context's Needed")
	}
}

type countingCache struct {
	cache.Cache
	gets, hits, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	data, hit, err := c.Cache.Get(ctx, key)
	if hit {
		c.hits++
	}
	return data, hit, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestVersioning(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}

	fsys := fstest.MapFS{"app.js": {Data: []byte("one")}}
	lib, _ := NewLibrary("app", fsys)
	r := mustResource(t, lib, "app.js")

	n := NewNeeded(Options{Versioning: true, RecomputeHashes: true}, cc)
	url1, err := n.URL(ctx, r)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.HasPrefix(url1, "/fanstatic/app/:version:") || !strings.HasSuffix(url1, "/app.js") {
		t.Errorf("URL = %q", url1)
	}

	url2, _ := n.URL(ctx, r)
	if url1 != url2 {
		t.Errorf("unchanged library changed version: %q vs %q", url1, url2)
	}
	if cc.hits != 1 || cc.sets != 1 {
		t.Errorf("cache hits=%d sets=%d, want 1 and 1", cc.hits, cc.sets)
	}

	fsys["app.js"] = &fstest.MapFile{Data: []byte("two!")}
	url3, _ := n.URL(ctx, r)
	if url3 == url1 {
		t.Error("changed content should change the version")
	}

	memo := NewNeeded(Options{Versioning: true}, cc)
	fsys["app.js"] = &fstest.MapFile{Data: []byte("three")}
	url4, _ := memo.URL(ctx, r)
	if url4 != url3 {
		t.Errorf("without recompute the version is memoized: %q vs %q", url4, url3)
	}
}

// stallingCache blocks Get until release is closed.
type stallingCache struct {
	cache.Cache
	entered chan struct{}
	release chan struct{}
}

func (c *stallingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	close(c.entered)
	<-c.release
	return nil, false, nil
}

func TestVersionDoesNotBlockLookups(t *testing.T) {
	lib := testLibrary(t, "app", "app.js")
	mustResource(t, lib, "app.js")

	sc := &stallingCache{Cache: cache.NewNullCache(), entered: make(chan struct{}), release: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := lib.Version(context.Background(), sc, false)
		done <- err
	}()
	<-sc.entered

	found := make(chan bool, 1)
	go func() {
		_, ok := lib.Resource("app.js")
		found <- ok
	}()
	select {
	case ok := <-found:
		if !ok {
			t.Error("Resource(app.js) not found during fingerprinting")
		}
	case <-time.After(2 * time.Second):
		t.Error("Resource lookup blocked while the version was computed")
	}

	close(sc.release)
	if err := <-done; err != nil {
		t.Errorf("Version: %v", err)
	}
}
