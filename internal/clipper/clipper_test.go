package clipper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meal-planner/internal/recipe"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const jsonLDPage = `<html><head>
<script type="application/ld+json">{"@type": "WebSite", "name": "Kuchnia"}</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "Organization", "name": "Kuchnia"},
    {
      "@type": ["Recipe", "NewsArticle"],
      "name": " Placki ziemniaczane ",
      "recipeCategory": ["Obiady", "Kuchnia polska"],
      "recipeIngredient": ["1 kg ziemniaków", "2 jajka", "sól do smaku", "  "],
      "recipeInstructions": [
        {"@type": "HowToStep", "text": "Zetrzyj ziemniaki."},
        {"@type": "HowToStep", "text": "Smaż na złoto."}
      ]
    }
  ]
}
</script></head><body><h1>Ignored</h1></body></html>`

const microdataPage = `<html><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h2 itemprop="name">Zupa   pomidorowa</h2>
  <span itemprop="recipeCategory">Zupy</span>
  <ul>
    <li itemprop="recipeIngredient">1 l bulionu</li>
    <li itemprop="recipeIngredient">500 g pomidorów</li>
  </ul>
  <p itemprop="recipeInstructions">Zagotuj bulion.</p>
  <p itemprop="recipeInstructions">Dodaj pomidory.</p>
</div></body></html>`

const loosePage = `<html><body>
<nav><ul class="ingredient-menu"><li>Menu</li></ul></nav>
<h1>Kompot</h1>
<div class="recipe-ingredients"><ul><li>3 szklanki wody</li><li>jabłka</li></ul></div>
</body></html>`

var ignoreGenerated = cmpopts.IgnoreFields(recipe.Recipe{}, "ID", "UpdatedAt")

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		html string
		want *recipe.Recipe
	}{
		{
			name: "json-ld graph",
			html: jsonLDPage,
			want: &recipe.Recipe{
				Title:    "Placki ziemniaczane",
				Category: &recipe.Category{ID: "obiady", Name: "Obiady"},
				Ingredients: []recipe.Ingredient{
					{Quantity: "1", Unit: "kg", Name: "ziemniaków"},
					{Quantity: "2", Name: "jajka"},
					{Name: "sól do smaku"},
				},
				Instructions: "Zetrzyj ziemniaki.\nSmaż na złoto.",
				SourceURL:    "https://example.com/placki",
			},
		},
		{
			name: "microdata",
			html: microdataPage,
			want: &recipe.Recipe{
				Title:    "Zupa pomidorowa",
				Category: &recipe.Category{ID: "zupy", Name: "Zupy"},
				Ingredients: []recipe.Ingredient{
					{Quantity: "1", Unit: "l", Name: "bulionu"},
					{Quantity: "500", Unit: "g", Name: "pomidorów"},
				},
				Instructions: "Zagotuj bulion.\nDodaj pomidory.",
				SourceURL:    "https://example.com/placki",
			},
		},
		{
			name: "loose markup",
			html: loosePage,
			want: &recipe.Recipe{
				Title: "Kompot",
				Ingredients: []recipe.Ingredient{
					{Quantity: "3", Unit: "szklanki", Name: "wody"},
					{Name: "jabłka"},
				},
				SourceURL: "https://example.com/placki",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.html), "https://example.com/placki")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, ignoreGenerated); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
			if got.ID == "" || got.UpdatedAt == "" {
				t.Error("Expected generated id and timestamp")
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Clipped recipe should be storable: %v", err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no title":       `<html><body><ul class="ingredients"><li>1 jajko</li></ul></body></html>`,
		"no ingredients": `<html><body><h1>Pusty przepis</h1></body></html>`,
	}
	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(html), "https://example.com"); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestClipURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/placki" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(jsonLDPage))
	}))
	defer srv.Close()

	c := NewClipper(srv.Client())

	rec, err := c.ClipURL(context.Background(), srv.URL+"/placki")
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}
	if rec.Title != "Placki ziemniaczane" || rec.SourceURL != srv.URL+"/placki" {
		t.Errorf("Unexpected recipe %+v", rec)
	}

	if _, err := c.ClipURL(context.Background(), srv.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Errorf("Expected status error, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Obiady":         "obiady",
		"Kuchnia polska": "kuchnia-polska",
		" Dania  główne!": "dania-główne",
		"":               "",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
