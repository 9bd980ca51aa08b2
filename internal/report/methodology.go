package report

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// methodologyMarkdown is shown in the collapsible Methodology block.
const methodologyMarkdown = `
We project free cash flow for *N* years with constant growth *g* and discount
each year at rate *r*. Terminal value uses Gordon Growth:
TV = FCF<sub>N+1</sub> / (r − g<sub>term</sub>).

| Step | Formula |
|---|---|
| Projected cash flow | FCF<sub>t</sub> = FCF<sub>0</sub> · (1 + g)<sup>t</sup> |
| Present value | PV<sub>t</sub> = FCF<sub>t</sub> / (1 + r)<sup>t</sup> |
| Enterprise value | Σ PV<sub>t</sub> + TV / (1 + r)<sup>N</sup> |
| Equity value | Enterprise value − Net Debt |
| Intrinsic value / share | Equity value / Shares |

Inputs are derived from SEC XBRL company facts where available:
FCF<sub>0</sub> = operating cash flow − |capital expenditure|, and
net debt = short-term debt + long-term debt − cash. Any field can be overridden.
The price is the prior close when auto-filled; otherwise enter it manually.
`

var (
	methodologyOnce sync.Once
	methodologyHTML template.HTML
	methodologyErr  error
)

// Methodology returns the methodology text rendered to HTML.
func Methodology() (template.HTML, error) {
	methodologyOnce.Do(func() {
		methodologyHTML, methodologyErr = RenderMarkdown(methodologyMarkdown)
	})
	return methodologyHTML, methodologyErr
}

// RenderMarkdown converts trusted Markdown to HTML. Inline HTML is passed
// through, so callers must not feed it untrusted input.
func RenderMarkdown(src string) (template.HTML, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
