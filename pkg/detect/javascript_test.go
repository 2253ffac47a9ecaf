package detect

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const reactSPAPage = `<!DOCTYPE html>
<html>
<head>
  <script src="/static/js/react.js"></script>
  <script src="/static/js/react-dom.production.min.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>
    ReactDOM.render(App, document.getElementById('root'));
    fetch('/api/data').then(function(r) { return r.json(); });
  </script>
</body>
</html>`

const staticPage = `<!DOCTYPE html>
<html>
<head><title>Plain</title></head>
<body>
  <h1>Hello</h1>
  <p>Fully static content with no scripts at all.</p>
</body>
</html>`

func TestDetect_ReactSPA(t *testing.T) {
	d := NewDetector(newTestLogger())
	features := d.Detect(reactSPAPage)

	if features.TotalScripts != 3 {
		t.Errorf("TotalScripts = %d, want 3", features.TotalScripts)
	}
	if features.ExternalScripts != 2 {
		t.Errorf("ExternalScripts = %d, want 2", features.ExternalScripts)
	}
	if features.InlineScripts != 1 {
		t.Errorf("InlineScripts = %d, want 1", features.InlineScripts)
	}

	found := false
	for _, fw := range features.Frameworks {
		if fw.Name == "React" {
			found = true
			if fw.Confidence <= 0 || fw.Confidence > 1 {
				t.Errorf("React confidence = %v, want (0, 1]", fw.Confidence)
			}
			if len(fw.Indicators) == 0 {
				t.Error("React match should carry indicators")
			}
		}
	}
	if !found {
		t.Fatalf("React not detected, got %v", features.Frameworks)
	}

	if !features.IsSPA {
		t.Error("IsSPA = false, want true (root mount div present)")
	}
	if !features.HasAjax {
		t.Error("HasAjax = false, want true (fetch call present)")
	}
	if !features.DynamicContentDetected {
		t.Error("DynamicContentDetected = false, want true")
	}
}

func TestDetect_StaticPage(t *testing.T) {
	d := NewDetector(newTestLogger())
	features := d.Detect(staticPage)

	if features.TotalScripts != 0 {
		t.Errorf("TotalScripts = %d, want 0", features.TotalScripts)
	}
	if len(features.Frameworks) != 0 {
		t.Errorf("Frameworks = %v, want none", features.Frameworks)
	}
	if features.IsSPA || features.HasAjax || features.DynamicContentDetected {
		t.Error("static page should have no dynamic signals")
	}
}

func TestDetect_ConfidenceSortedDescending(t *testing.T) {
	page := `<html><body>
		<div id="app"></div>
		<script src="vue.js"></script>
		<script src="jquery.min.js"></script>
		<script>var app = new Vue({el: '#app', data: {}}); $.ajax({url: '/x'});</script>
	</body></html>`

	d := NewDetector(newTestLogger())
	features := d.Detect(page)

	if len(features.Frameworks) < 2 {
		t.Fatalf("expected at least 2 frameworks, got %v", features.Frameworks)
	}
	for i := 1; i < len(features.Frameworks); i++ {
		if features.Frameworks[i].Confidence > features.Frameworks[i-1].Confidence {
			t.Errorf("frameworks not sorted by confidence: %v", features.Frameworks)
		}
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := NewDetector(newTestLogger())
	a := d.Detect(reactSPAPage)
	b := d.Detect(reactSPAPage)

	if len(a.Frameworks) != len(b.Frameworks) {
		t.Fatal("framework counts differ between runs")
	}
	for i := range a.Frameworks {
		if a.Frameworks[i].Name != b.Frameworks[i].Name || a.Frameworks[i].Confidence != b.Frameworks[i].Confidence {
			t.Errorf("run %d differs: %v vs %v", i, a.Frameworks[i], b.Frameworks[i])
		}
	}
}

func TestDetect_AjaxWithoutFramework(t *testing.T) {
	page := `<html><body>
		<script>
			var xhr = new XMLHttpRequest();
			xhr.open('GET', '/api/items');
		</script>
	</body></html>`

	d := NewDetector(newTestLogger())
	features := d.Detect(page)

	if !features.HasAjax {
		t.Error("HasAjax = false, want true")
	}
	if !features.DynamicContentDetected {
		t.Error("ajax alone should mark content dynamic")
	}
	if features.IsSPA {
		t.Error("IsSPA = true, want false")
	}
}

func TestSignatures_ReturnsCopy(t *testing.T) {
	sigs := Signatures()
	if len(sigs) == 0 {
		t.Fatal("no signatures registered")
	}
	name := sigs[0].Name
	sigs[0].Name = "mutated"
	if Signatures()[0].Name != name {
		t.Error("mutating the returned slice must not affect the table")
	}
}
