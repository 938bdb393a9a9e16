// Package site holds the pages of the know-web site as server components and
// assembles them behind a router.
package site

import (
	"fmt"
	"slices"
	"strings"

	"github.com/delaneyj/knowweb/ssr"
)

// scoped swaps the scope token in markup for the class of the component
// being rendered.
func scoped(r *ssr.Renderer, markup string) string {
	return strings.ReplaceAll(markup, ssr.ScopeToken, r.Class())
}

const homeCSS = `body.$scope{height:100vh;padding:0}` +
	`nav.$scope{font-family:'Times New Roman', Times, serif;font-size:17pt;position:absolute;right:0}` +
	`nav.$scope>a.$scope{padding:0.5em;color:#333}` +
	`main.$scope{display:flex;flex-direction:row;align-items:center;justify-content:center;width:100%;height:100%;background:url('/res/HomepageBackgroundLight.png');background-size:cover}` +
	`#sections.$scope{width:60%;display:flex;flex-direction:column;align-items:left;justify-content:center;padding:0 30px}` +
	`.SectionBlock.$scope{display:flex;flex-direction:row;justify-content:space-between;padding:1rem 0;cursor:pointer}` +
	`.SectionText.$scope{font-family:'Times New Roman', Times, serif;font-size:28pt;font-weight:bold}` +
	`.PageDots.$scope{flex-grow:1;margin:0 0.5em;background:url("data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 10 20'%3E%3Ccircle cx='5' cy='5' r='2'/%3E%3C/svg%3E") repeat-x;background-size:1em;background-position-y:2em;opacity:.6}` +
	`.PageNumber.$scope{font-family:'Times New Roman', Times, serif;margin-top:0.5rem;font-size:28pt;opacity:.7}` +
	`#introPlacement.$scope{display:flex;align-items:center;height:100%;width:40%;overflow:hidden}` +
	`#introPlacement.$scope>div.$scope{position:absolute;font-family:'Times New Roman', Times, serif;font-size:10vmin;opacity:0.2;color:rgb(100, 171, 205);z-index:1}` +
	`#introTitle.$scope{display:block;font-size:60vmin;line-height:57vmin;margin-left:-0.1em;width:1em;z-index:2;font-family:'Times New Roman', Times, serif;overflow:hidden;` +
	`background:linear-gradient(to top, rgba(100, 171, 205, 0.8) 0%, rgba(62, 120, 146, 1) 49%, rgba(100, 171, 205, 0.8) 50%, rgba(62, 120, 146, 1) 100%);` +
	`background-clip:text;-webkit-background-clip:text;-webkit-text-fill-color:transparent}`

// HomeTitle is the document title the home page sets.
const HomeTitle = "知鱼哦"

type introWord struct {
	text, style string
}

var introWords = []introWord{
	{"海玻璃", "top: 50%; left: 12%; font-size: 12vmin;"},
	{"花", "top: 5%; left: 25%; font-size: 20vmin; font-weight: bold;"},
	{"温水", "top: 27%; left: 7%; font-size: 17vmin;"},
	{"惑星", "top: 25%; left: 2%;"},
	{"绒绒", "top: 64%; left: -2%; width: 1em; line-height: 9vmin;"},
	{"风", "top: 35%; left: -1%; font-size: 19vmin; font-weight: bold;"},
}

// Section is one entry of the home page's table of contents.
type Section struct {
	Text string
	Page string
}

var homeSections = []Section{
	{"邮局", "post"},
	{"故事本", "stories"},
	{"小卖部", "grocery"},
}

// Home is the landing page. A "sections" prop of []Section replaces the
// table of contents.
var Home = ssr.Define("Home", homeCSS, func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
	r.SetTitle(HomeTitle)
	sections, ok := props["sections"].([]Section)
	if !ok {
		sections = homeSections
	}

	var sb strings.Builder
	sb.WriteString(`<body class="$scope"><nav class="$scope"><a href="/" class="$scope">首页</a>
        <a href="/rpg" class="$scope">RPG</a></nav>
    <main class="$scope"><div id="introPlacement" class="$scope"><h1 id="introTitle" class="$scope">知魚</h1>`)
	sb.WriteString(ssr.Each(introWords, func(w introWord, _ int) string {
		return "\n            <div" + ssr.Attr("style", w.style, false) + ` class="$scope">` + ssr.Escape(w.text) + "</div>"
	}))
	sb.WriteString(`</div>
        <div id="sections" class="$scope">`)
	sb.WriteString(ssr.Each(sections, func(s Section, i int) string {
		block := ""
		if i > 0 {
			block = "\n            "
		}
		return block + `<div class="SectionBlock $scope">
                <div class="SectionText $scope">` + ssr.Escape(s.Text) + `</div>
                <div class="PageDots $scope"></div>
                <div class="PageNumber $scope">` + ssr.Escape(s.Page) + `</div></div>`
	}))
	sb.WriteString(`</div></main>
</body>`)
	return scoped(r, sb.String())
})

// RPGButton is a pixel-font button around its default slot.
var RPGButton = ssr.Define("RPGButton",
	`button.$scope{background:none;border:none;font-family:'DinkleBitmap-9px'}`,
	func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return `<button class="` + r.Class() + `">` + ssr.Slot(r, slots, "default", nil) + "\n</button>"
	})

// RPG is the dialog scene. Props: dialogName.
var RPG = ssr.Define("RPG",
	`main.$scope{height:100vh;min-height:400px;background:var(--RPG-background)}`+
		`#RPGDialog.$scope{position:fixed;top:0;left:0;width:100%;max-height:30vh;z-index:5}`+
		`#RPGDialogHeader.$scope{text-align:left;font-family:DinkleBitmap-9px;font-size:27px}`,
	func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		name := ""
		if v, ok := props["dialogName"]; ok && v != nil {
			name = ssr.EscapeAny(v)
		}
		return scoped(r, `<main class="$scope"><div id="RPGDialog" class="$scope"><div id="RPGDialogHeader" class="$scope">`) +
			name + "</div>\n        " + ssr.Slot(r, slots, "default", nil) + "</div>\n</main>"
	})

// Scene is what an RPG page opens on.
type Scene struct {
	DialogName string
	Choices    []string
}

var startScene = Scene{
	DialogName: "你好",
	Choices:    []string{"大家好才是真的好"},
}

// RPGHome opens the RPG on its start scene. Props: dialogName and choices
// override the scene.
var RPGHome = ssr.Define("RPGHome", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
	scene := startScene
	if name, ok := props["dialogName"].(string); ok {
		scene.DialogName = name
	}
	switch choices := props["choices"].(type) {
	case []string:
		scene.Choices = choices
	case []any:
		scene.Choices = make([]string, len(choices))
		for i, c := range choices {
			scene.Choices[i] = fmt.Sprint(c)
		}
	}

	return ssr.ValidateComponent(RPG, "RPG").RenderIn(r, ssr.Props{"dialogName": scene.DialogName}, ssr.Slots{
		"default": func(r *ssr.Renderer, _ ssr.Props) string {
			return ssr.Each(scene.Choices, func(choice string, _ int) string {
				return ssr.ValidateComponent(RPGButton, "RPGButton").RenderIn(r, nil, ssr.Slots{
					"default": func(*ssr.Renderer, ssr.Props) string {
						return ssr.Escape(choice) + "\n    "
					},
				})
			})
		},
	})
})

// Pages are the components a route can name.
var Pages = map[string]*ssr.Component{
	"Home":    Home,
	"RPG":     RPG,
	"RPGHome": RPGHome,
}

// PageNames lists Pages in sorted order.
func PageNames() []string {
	names := make([]string, 0, len(Pages))
	for name := range Pages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
