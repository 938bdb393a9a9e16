package ssr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/ssr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{`<a href="x">`, "&lt;a href=&quot;x&quot;&gt;"},
		{"tom & jerry's", "tom &amp; jerry&#39;s"},
		{"你好", "你好"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, ssr.Escape(tt.in))
		})
	}

	assert.Equal(t, "42", ssr.EscapeAny(42))
	assert.Equal(t, "&lt;b&gt;", ssr.EscapeAny("<b>"))
}

func TestAttr(t *testing.T) {
	assert.Equal(t, ` id="a&amp;b"`, ssr.Attr("id", "a&b", false))
	assert.Equal(t, "", ssr.Attr("id", nil, false))
	assert.Equal(t, " hidden", ssr.Attr("hidden", true, true))
	assert.Equal(t, "", ssr.Attr("hidden", false, true))
	assert.Equal(t, ` data-n="3"`, ssr.Attr("data-n", 3, false))
}

func TestScopedStyles(t *testing.T) {
	/*
	   Outer
	   ├── Inner
	   └── Inner
	*/
	inner := ssr.Define("Inner", "p.$scope{color:red}", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return `<p class="` + r.Class() + `">` + ssr.EscapeAny(props["text"]) + "</p>"
	})
	outer := ssr.Define("Outer", "div.$scope{margin:0}", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return `<div class="` + r.Class() + `">` +
			inner.RenderIn(r, ssr.Props{"text": "a"}, nil) +
			inner.RenderIn(r, ssr.Props{"text": "<b>"}, nil) +
			"</div>"
	})

	require.True(t, strings.HasPrefix(inner.Class, "svelte-"))
	assert.NotEqual(t, inner.Class, outer.Class)
	assert.Equal(t, inner.Class, ssr.ScopeClass("p.$scope{color:red}"))

	res := outer.Render(nil)
	assert.Equal(t,
		`<div class="`+outer.Class+`"><p class="`+inner.Class+`">a</p><p class="`+inner.Class+`">&lt;b&gt;</p></div>`,
		res.HTML,
	)
	assert.Equal(t, "div."+outer.Class+"{margin:0}\np."+inner.Class+"{color:red}", res.CSS)
	assert.Equal(t, "", res.Head)
}

func TestHeadAndTitle(t *testing.T) {
	page := ssr.Define("Page", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		r.SetTitle("first")
		r.AppendHead(`<meta name="a">`)
		r.SetTitle("知鱼 & co")
		return "<main></main>"
	})
	res := page.Render(nil)
	assert.Equal(t, `<title>知鱼 &amp; co</title><meta name="a">`, res.Head)
	assert.Empty(t, page.Class)
	assert.Empty(t, res.CSS)
}

func TestSlots(t *testing.T) {
	button := ssr.Define("Button", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return "<button>" + ssr.Slot(r, slots, "default", ssr.Props{"n": 2}) + ssr.Slot(r, slots, "missing", nil) + "</button>"
	})
	list := ssr.Define("List", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return ssr.Each([]string{"x", "y"}, func(item string, i int) string {
			return button.RenderIn(r, nil, ssr.Slots{
				"default": func(r *ssr.Renderer, scope ssr.Props) string {
					return item + ssr.EscapeAny(scope["n"])
				},
			})
		})
	})
	assert.Equal(t, "<button>x2</button><button>y2</button>", list.Render(nil).HTML)

	res := button.Render(nil, ssr.WithSlots(ssr.Slots{
		"default": func(*ssr.Renderer, ssr.Props) string { return "go" },
	}))
	assert.Equal(t, "<button>go</button>", res.HTML)
}

func TestContext(t *testing.T) {
	/*
	   Parent (sets "k"=parent)
	   ├── Child (overrides "k"=child, reads it)
	   └── Reader (still sees parent)
	*/
	var log []string
	reader := ssr.Define("Reader", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		log = append(log, r.GetContext("k").(string))
		return ""
	})
	child := ssr.Define("Child", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		r.SetContext("k", "child")
		return reader.RenderIn(r, nil, nil)
	})
	parent := ssr.Define("Parent", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		assert.True(t, r.HasContext("root"))
		r.SetContext("k", "parent")
		out := child.RenderIn(r, nil, nil) + reader.RenderIn(r, nil, nil)
		assert.Equal(t, "parent", r.GetContext("k"))
		return out
	})

	ctx := component.Context{"root": true}
	parent.Render(nil, ssr.WithContext(ctx))
	assert.Equal(t, []string{"child", "parent"}, log)
	assert.NotContains(t, ctx, "k")
}

func TestOnDestroyRunsAfterRender(t *testing.T) {
	var log []string
	leaf := ssr.Define("Leaf", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		r.OnMount(func() func() {
			log = append(log, "mount")
			return nil
		})
		r.OnDestroy(func() { log = append(log, "destroy leaf") })
		log = append(log, "render leaf")
		return "leaf"
	})
	root := ssr.Define("Root", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		r.OnDestroy(func() { log = append(log, "destroy root") })
		log = append(log, "render root")
		return leaf.RenderIn(r, nil, nil)
	})

	res := root.Render(nil)
	assert.Equal(t, "leaf", res.HTML)
	assert.Equal(t, []string{"render root", "render leaf", "destroy root", "destroy leaf"}, log)
}

func TestValidateComponent(t *testing.T) {
	c := ssr.Define("Ok", "", func(*ssr.Renderer, ssr.Props, ssr.Slots) string { return "" })
	assert.Same(t, c, ssr.ValidateComponent(c, "Ok"))
	assert.Same(t, ssr.MissingComponent, ssr.ValidateComponent(ssr.MissingComponent, "svelte:component"))
	assert.Equal(t, "", ssr.MissingComponent.Render(nil).HTML)

	for _, name := range []string{"Thing", "svelte:component"} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, ssr.ErrInvalidComponent))
				if name == "svelte:component" {
					assert.Equal(t, "<svelte:component this={...}> is not a valid SSR component", err.Error())
				} else {
					assert.Equal(t, "<Thing> is not a valid SSR component", err.Error())
				}
			}()
			ssr.ValidateComponent(nil, name)
		})
	}
}

func TestRendererOutsideComponentPanics(t *testing.T) {
	var captured *ssr.Renderer
	c := ssr.Define("Capture", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		captured = r
		return ""
	})
	c.Render(nil)
	require.NotNil(t, captured)

	assert.PanicsWithValue(t, component.ErrOutsideInit, func() {
		captured.SetContext("k", 1)
	})
	assert.PanicsWithValue(t, component.ErrOutsideInit, func() {
		captured.OnDestroy(func() {})
	})
}
