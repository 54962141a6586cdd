package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/parser/queries"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	pm := parser.NewManager(nil)
	qm := queries.NewManager(pm, nil)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return NewExtractor(pm, qm, nil)
}

const userCardJS = `/**
 * Card displaying a user's avatar and name.
 * @version 2.1.0
 */
import { formatName } from './name-utils.js';
import theme from '../shared/theme.js';

class UserCard extends HTMLElement {
  static get observedAttributes() {
    return ['variant', 'size', 'interactive'];
  }

  connectedCallback() {
    this.className = 'user-card';
    this.innerHTML = ` + "`" + `
      <div class="user-card__avatar"></div>
      <span class="user-card__name user-card__name--bold"></span>
    ` + "`" + `;
    this.classList.add('is-ready');
  }
}

customElements.define('user-card', UserCard);
`

// --- JavaScript extraction ---

func TestExtract_JavaScriptComponent(t *testing.T) {
	e := testExtractor(t)
	meta := e.Extract("components/user-card.js", []byte(userCardJS))

	assert.Equal(t, "Card displaying a user's avatar and name.", meta.Description)
	assert.Equal(t, "2.1.0", meta.Version)
	assert.Equal(t, []string{"variant", "size", "interactive"}, meta.Props)
	// Only "./" imports count as dependencies; "../shared" is excluded.
	assert.Equal(t, []string{"name-utils.js"}, meta.Dependencies)
	assert.Contains(t, meta.BEMClasses, "user-card")
	assert.Contains(t, meta.BEMClasses, "user-card__avatar")
	assert.Contains(t, meta.BEMClasses, "user-card__name")
	assert.Contains(t, meta.BEMClasses, "is-ready")
}

func TestExtract_DefaultsWhenPatternsAbsent(t *testing.T) {
	e := testExtractor(t)
	meta := e.Extract("components/bare-box.js", []byte("class BareBox extends HTMLElement {}"))

	assert.Empty(t, meta.Props)
	assert.Empty(t, meta.Description)
	assert.Equal(t, DefaultVersion, meta.Version)
	assert.Empty(t, meta.Dependencies)
	assert.Empty(t, meta.BEMClasses)
}

func TestExtract_FirstVersionWins(t *testing.T) {
	e := testExtractor(t)
	source := "/**\n * Thing.\n * @version 1.2.3\n * @version 9.9.9\n */\nclass X {}"
	meta := e.Extract("components/thing-box.js", []byte(source))
	assert.Equal(t, "1.2.3", meta.Version)
}

func TestExtract_MalformedSourceStillYieldsMetadata(t *testing.T) {
	e := testExtractor(t)
	// Broken JS: the partial tree plus text pass still produce a result.
	meta := e.Extract("components/broken-card.js", []byte("/**\n * Broken.\n */\nclass {{{ class=\"oops\""))
	assert.Equal(t, "Broken.", meta.Description)
	assert.Equal(t, DefaultVersion, meta.Version)
}

// --- HTML extraction ---

func TestExtract_HTMLPage(t *testing.T) {
	e := testExtractor(t)
	source := `<!-- Dashboard landing page -->
<html>
  <body class="dashboard-page">
    <user-card variant="compact"></user-card>
    <script type="module" src="./dashboard-init.js"></script>
    <link rel="stylesheet" href="./local.css">
  </body>
</html>`
	meta := e.Extract("pages/dashboard-page.html", []byte(source))

	assert.Equal(t, "Dashboard landing page", meta.Description)
	assert.Equal(t, DefaultVersion, meta.Version)
	assert.Equal(t, []string{"dashboard-init.js", "local.css"}, meta.Dependencies)
	assert.Contains(t, meta.BEMClasses, "dashboard-page")
}

// --- text-pass helpers ---

func TestMarkupClasses_FirstTokenOnly(t *testing.T) {
	classes := markupClasses(`<div class="card card--wide"><p class="card__body small"></p></div>`)
	assert.Equal(t, []string{"card", "card__body"}, classes)
}

func TestFallbackProps(t *testing.T) {
	text := "static get observedAttributes() { return ['a', \"b\", , 'c'] }"
	assert.Equal(t, []string{"a", "b", "c"}, fallbackProps(text))

	assert.Nil(t, fallbackProps("class X {}"))
}

func TestFallbackImports(t *testing.T) {
	text := `import x from './x.js'; const y = require('./y.js'); import '../up.js';`
	assert.Equal(t, []string{"x.js", "y.js"}, fallbackImports(text))
}

func TestExtractDescription_TagLineMeansNoDescription(t *testing.T) {
	assert.Equal(t, "", extractDescription("/**\n * @version 1.0.0\n */"))
}

func TestExtractDescription_SingleLineComment(t *testing.T) {
	assert.Equal(t, "Inline summary.", extractDescription("/** Inline summary. */"))
}
