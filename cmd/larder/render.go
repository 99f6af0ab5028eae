package main

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/ingestion"
	"github.com/poiesic/larder/search"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	ingredientStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#86efac"))

	// Tag chips, one color per facet type.
	chipStyles = map[core.FacetType]lipgloss.Style{
		core.FacetIngredients: lipgloss.NewStyle().Foreground(lipgloss.Color("#1e3a8a")).Background(lipgloss.Color("#93c5fd")).Padding(0, 1),
		core.FacetUtensils:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7f1d1d")).Background(lipgloss.Color("#fca5a5")).Padding(0, 1),
		core.FacetAppliances:  lipgloss.NewStyle().Foreground(lipgloss.Color("#14532d")).Background(lipgloss.Color("#86efac")).Padding(0, 1),
	}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)
)

const emptyMessage = "No recipe matches your criteria. Try searching for \"tarte aux pommes\", \"poisson\", etc."

// renderResult renders a search result according to its display state.
func renderResult(result search.FilterResult, descLimit int) string {
	var b strings.Builder

	if chips := renderTags(result.Tags.Tags()); chips != "" {
		b.WriteString(chips + "\n")
	}
	for _, tag := range result.Pruned {
		b.WriteString(warnStyle.Render(fmt.Sprintf("dropped %s: no matching recipe left", tag)) + "\n")
	}

	switch result.Display() {
	case search.DisplayNone:
		b.WriteString(mutedStyle.Render("Type at least 3 characters or pick a tag to search.") + "\n")
	case search.DisplayEmpty:
		b.WriteString(warnStyle.Render(emptyMessage) + "\n")
	case search.DisplayResults:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d recipe(s)", len(result.Recipes))) + "\n")
		for _, r := range result.Recipes {
			b.WriteString(renderCard(r, descLimit) + "\n")
		}
	}
	return b.String()
}

func renderTags(tags []core.Tag) string {
	chips := make([]string, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, chipStyles[tag.Type].Render(tag.Value))
	}
	return strings.Join(chips, " ")
}

// renderCard renders the compact card shown in result lists.
func renderCard(r *core.Recipe, descLimit int) string {
	header := titleStyle.Render(r.Name) + "  " + timeStyle.Render(timeLabel(r.Duration()))
	lines := []string{
		header,
		descStyle.Render(r.ShortDescription(descLimit)),
	}
	for _, ing := range r.Ingredients {
		lines = append(lines, ingredientStyle.Render(ingredientLine(ing)))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderRecipe renders the full recipe for the show command.
func renderRecipe(r *core.Recipe) string {
	lines := []string{
		titleStyle.Render(r.Name),
		timeStyle.Render(fmt.Sprintf("#%d · %s · %d servings", r.ID, timeLabel(r.Duration()), r.Servings)),
		"",
		descStyle.Render(r.Description),
		"",
	}
	for _, ing := range r.Ingredients {
		lines = append(lines, ingredientStyle.Render("- "+ingredientLine(ing)))
	}
	lines = append(lines, "")

	tags := []core.Tag{core.NewTag(core.FacetAppliances, r.Appliance)}
	for _, u := range r.Utensils {
		tags = append(tags, core.NewTag(core.FacetUtensils, u))
	}
	lines = append(lines, renderTags(tags))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// timeLabel renders a preparation time in minutes, e.g. "90 min".
func timeLabel(d time.Duration) string {
	return fmt.Sprintf("%d min", int(d.Minutes()))
}

// ingredientLine renders an ingredient for a card. Lines with a quantity
// start with a capital letter ("Farine: 250 g"); bare names stay as stored.
func ingredientLine(ing core.Ingredient) string {
	line := ing.String()
	if ing.Quantity == 0 {
		return line
	}
	first, size := utf8.DecodeRuneInString(line)
	return string(unicode.ToUpper(first)) + line[size:]
}

func renderImport(result *ingestion.ImportResult) string {
	if result.Skipped {
		return mutedStyle.Render(fmt.Sprintf("%s unchanged (%d recipes), skipped", result.Source, result.Count))
	}
	return okStyle.Render(fmt.Sprintf("imported %d recipes from %s", result.Count, result.Source)) +
		" " + timeStyle.Render("run "+result.RunID)
}
