package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"grocery-planner/internal/database"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/recipe"
)

// --- Mocks ---

type MockTextGenerator struct {
	Response    string
	LastRequest llm.Request
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, req llm.Request) (llm.ContentResponse, error) {
	m.LastRequest = req
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

func newTestRepo(t *testing.T) *recipe.Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return recipe.NewRepository(db.SQL)
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	c := NewClipper(nil, &MockTextGenerator{})

	cleanText, err := c.fetchAndCleanHTML(ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("Failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("Failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("Failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Tasty Recipe") {
		t.Error("Expected to find 'Tasty Recipe'")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("Expected to find body content")
	}
}

func TestClipURL_Success(t *testing.T) {
	aiResponse := `{"title": "Mock Pie", "cuisine": "American",
		"ingredients": ["2 Apples", "1 Crust"], "steps": ["Fill", "Bake"],
		"prep_time": "20 mins", "cook_time": "1 hour", "servings": "8 people"}`

	repo := newTestRepo(t)
	mockAI := &MockTextGenerator{Response: aiResponse}
	c := NewClipper(repo, mockAI)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Some Content</body></html>"))
	}))
	defer ts.Close()

	saved, err := c.ClipURL(context.Background(), "u1", ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if saved.Name != "Mock Pie" {
		t.Errorf("Expected name 'Mock Pie', got '%s'", saved.Name)
	}
	if saved.PrepTime != "20 mins" || saved.CookTime != "1 hour" {
		t.Errorf("Expected times carried through, got %q / %q", saved.PrepTime, saved.CookTime)
	}
	if saved.Servings != 8 {
		t.Errorf("Expected 8 servings, got %d", saved.Servings)
	}
	if saved.SourceURL != ts.URL {
		t.Errorf("Expected source URL %s, got %s", ts.URL, saved.SourceURL)
	}
	if !strings.Contains(mockAI.LastRequest.Prompt, "Some Content") {
		t.Error("Expected the page text in the extraction prompt")
	}

	// The recipe must land in the user's collection.
	got, err := repo.Get(context.Background(), "u1", saved.ID)
	if err != nil {
		t.Fatalf("Failed to read back saved recipe: %v", err)
	}
	if got == nil || got.Name != "Mock Pie" {
		t.Fatalf("Expected the clipped recipe in the repository, got %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0].Item != "2 Apples" {
		t.Errorf("Unexpected ingredients: %+v", got.Ingredients)
	}
}

func TestClipURL_NoRecipeFound(t *testing.T) {
	repo := newTestRepo(t)
	mockAI := &MockTextGenerator{Response: `{"title": "", "ingredients": []}`}
	c := NewClipper(repo, mockAI)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>A blog post with no recipe.</body></html>"))
	}))
	defer ts.Close()

	if _, err := c.ClipURL(context.Background(), "u1", ts.URL); err == nil {
		t.Error("Expected an error when the page holds no recipe")
	}
}

