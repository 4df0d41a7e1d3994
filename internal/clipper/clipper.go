package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/recipe"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Clipper fetches recipe pages and turns them into catalog recipes.
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper. A nil client gets a 15 second timeout.
func NewClipper(httpClient *http.Client) *Clipper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Clipper{httpClient: httpClient}
}

// ClipURL downloads the page at url and extracts a recipe from it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return Parse(resp.Body, url)
}

// Parse extracts a recipe from an HTML document. It understands schema.org
// Recipe data in JSON-LD or microdata form and falls back to the page's first
// heading plus list items inside an element whose class mentions
// "ingredient".
func Parse(r io.Reader, sourceURL string) (*recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page, ok := fromJSONLD(doc)
	if !ok {
		page = fromMarkup(doc)
	}

	if page.title == "" {
		return nil, fmt.Errorf("no recipe title found at %s", sourceURL)
	}
	if len(page.ingredients) == 0 {
		return nil, fmt.Errorf("no ingredients found for %q", page.title)
	}

	rec := &recipe.Recipe{
		ID:           uuid.NewString(),
		Title:        page.title,
		Instructions: page.instructions,
		SourceURL:    sourceURL,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if page.category != "" {
		rec.Category = &recipe.Category{ID: slugify(page.category), Name: page.category}
	}
	for _, line := range page.ingredients {
		if ing, ok := ParseIngredientLine(line); ok {
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}
	return rec, nil
}

type scrapedPage struct {
	title        string
	category     string
	ingredients  []string
	instructions string
}

// ldRecipe is the subset of a schema.org Recipe we read. Category and
// instructions come in several shapes, hence json.RawMessage.
type ldRecipe struct {
	Type               json.RawMessage `json:"@type"`
	Name               string          `json:"name"`
	RecipeCategory     json.RawMessage `json:"recipeCategory"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
	Graph              []ldRecipe      `json:"@graph"`
}

func fromJSONLD(doc *goquery.Document) (scrapedPage, bool) {
	var found scrapedPage
	ok := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		var candidates []ldRecipe
		if strings.HasPrefix(raw, "[") {
			_ = json.Unmarshal([]byte(raw), &candidates)
		} else {
			var single ldRecipe
			if json.Unmarshal([]byte(raw), &single) == nil {
				candidates = append([]ldRecipe{single}, single.Graph...)
			}
		}
		for _, cand := range candidates {
			if !hasType(cand.Type, "Recipe") {
				continue
			}
			found = scrapedPage{
				title:        strings.TrimSpace(cand.Name),
				category:     firstString(cand.RecipeCategory),
				ingredients:  cand.RecipeIngredient,
				instructions: instructionsText(cand.RecipeInstructions),
			}
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

func fromMarkup(doc *goquery.Document) scrapedPage {
	var page scrapedPage

	scope := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
	if scope.Length() > 0 {
		page.title = cleanText(scope.Find(`[itemprop="name"]`).First().Text())
		page.category = cleanText(scope.Find(`[itemprop="recipeCategory"]`).First().Text())
		scope.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
			page.ingredients = append(page.ingredients, cleanText(s.Text()))
		})
		var steps []string
		scope.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, s *goquery.Selection) {
			steps = append(steps, cleanText(s.Text()))
		})
		page.instructions = strings.Join(steps, "\n")
		return page
	}

	// Remove noise before reading loose markup.
	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Remove()

	page.title = cleanText(doc.Find("h1").First().Text())
	doc.Find(`[class*="ingredient"] li`).Each(func(_ int, s *goquery.Selection) {
		page.ingredients = append(page.ingredients, cleanText(s.Text()))
	})
	return page
}

func hasType(raw json.RawMessage, want string) bool {
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return single == want
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil {
		for _, t := range many {
			if t == want {
				return true
			}
		}
	}
	return false
}

func firstString(raw json.RawMessage) string {
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil && len(many) > 0 {
		return strings.TrimSpace(many[0])
	}
	return ""
}

func instructionsText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return strings.TrimSpace(single)
	}
	var steps []struct {
		Text string `json:"text"`
	}
	if json.Unmarshal(raw, &steps) == nil {
		lines := make([]string, 0, len(steps))
		for _, s := range steps {
			if t := strings.TrimSpace(s.Text); t != "" {
				lines = append(lines, t)
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
