package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"grocery-planner/internal/llm"
	"grocery-planner/internal/recipe"

	"github.com/PuerkitoBio/goquery"
)

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	recipes *recipe.Repository
	textGen llm.TextGenerator
}

// ExtractedRecipe represents the data structured by the AI.
type ExtractedRecipe struct {
	Title       string   `json:"title"`
	Cuisine     string   `json:"cuisine"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	PrepTime    string   `json:"prep_time"`
	CookTime    string   `json:"cook_time"`
	Servings    string   `json:"servings"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(recipes *recipe.Repository, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		recipes: recipes,
		textGen: textGen,
	}
}

const extractionInstruction = `You are a recipe extraction expert. Extract the recipe details from the provided page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "cuisine": "e.g. Italian",
  "ingredients": ["item 1", "item 2", ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "prep_time": "e.g. 30 mins",
  "cook_time": "e.g. 45 mins",
  "servings": "e.g. 4 people"
}`

// ClipURL fetches the URL, extracts the recipe using AI, and saves it to the
// user's recipe collection.
func (c *Clipper) ClipURL(ctx context.Context, userID string, url string) (*recipe.UserRecipe, error) {
	// 1. Fetch and clean HTML
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	// 2. Extract data via the LLM
	resp, err := c.textGen.GenerateContent(ctx, llm.Request{
		SystemInstruction: extractionInstruction,
		Prompt:            fmt.Sprintf("Page Content:\n%s", content),
		Temperature:       0.2,
		MaxTokens:         2000,
	})
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Title == "" || len(extracted.Ingredients) == 0 {
		return nil, fmt.Errorf("no extractable recipe found at %s", url)
	}

	// 3. Save to the recipe collection
	saved := toUserRecipe(extracted, url)
	if err := c.recipes.Save(ctx, userID, saved); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	return &saved, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

func toUserRecipe(r ExtractedRecipe, sourceURL string) recipe.UserRecipe {
	ingredients := make([]recipe.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, recipe.Ingredient{Item: ing})
	}
	return recipe.UserRecipe{
		ID:           fmt.Sprintf("clip-%d", time.Now().UnixNano()),
		Name:         r.Title,
		Cuisine:      r.Cuisine,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     parseLeadingInt(r.Servings),
		Ingredients:  ingredients,
		Instructions: r.Steps,
		SourceURL:    sourceURL,
	}
}

func parseLeadingInt(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
