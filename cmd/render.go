package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/mediacat/internal/catalog"
	"github.com/lepinkainen/mediacat/internal/media"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(0, 1)

var (
	typeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("254"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Faint(true)
)

// writeStructured handles the json and yaml formats; it reports false for
// text so the caller can render its own view.
func writeStructured(out io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func writeMetadata(out io.Writer, format string, md *media.NormalizedMetadata) error {
	if done, err := writeStructured(out, format, md); done {
		return err
	}
	_, err := fmt.Fprintln(out, renderCard(md))
	return err
}

func renderCard(md *media.NormalizedMetadata) string {
	kind := "UNKNOWN"
	if md.MediaType != nil {
		kind = strings.ToUpper(string(*md.MediaType))
	}
	title := media.Deref(md.Title)
	if title == "" {
		title = "(untitled)"
	}

	lines := []string{
		typeStyle.Render("[" + kind + "]"),
		titleStyle.Render(title),
	}
	for _, f := range []struct {
		label string
		value *string
	}{
		{"By", md.Creator},
		{"Year", md.Year},
		{"Publisher", md.Publisher},
		{"ISBN", md.ISBN},
	} {
		if f.value != nil {
			lines = append(lines, labelStyle.Render(f.label+":")+" "+*f.value)
		}
	}
	if md.Confidence > 0 {
		lines = append(lines, labelStyle.Render("Confidence:")+" "+strconv.FormatFloat(md.Confidence, 'f', 2, 64))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderItemsTable(items []catalog.Item) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Type", "Year", "Creator", "Genre", "Added"})
	for _, it := range items {
		year := ""
		if it.Year != nil {
			year = strconv.Itoa(*it.Year)
		}
		tw.AppendRow(table.Row{it.ID, it.Title, string(it.MediaType), year, it.Creator(), it.Genre(), it.DateAdded})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderItem(it *catalog.Item) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	add := func(label, value string) {
		if value != "" {
			tw.AppendRow(table.Row{label, value})
		}
	}
	addInt := func(label string, v *int) {
		if v != nil {
			tw.AppendRow(table.Row{label, strconv.Itoa(*v)})
		}
	}

	add("ID", strconv.FormatInt(it.ID, 10))
	add("Title", it.Title)
	add("Type", string(it.MediaType))
	addInt("Year", it.Year)
	add("Added", it.DateAdded)
	switch {
	case it.Book != nil:
		add("Author", it.Book.Author)
		add("ISBN", it.Book.ISBN)
		add("Publisher", it.Book.Publisher)
		addInt("Pages", it.Book.PageCount)
		add("Physical description", it.Book.PhysicalDescription)
		add("Genre", it.Book.Genre)
	case it.Audio != nil:
		add("Artist", it.Audio.Artist)
		add("Album", it.Audio.Album)
		addInt("Tracks", it.Audio.TrackCount)
		add("Format", it.Audio.Format)
		add("Genre", it.Audio.Genre)
	case it.Video != nil:
		add("Director", it.Video.Director)
		addInt("Runtime (min)", it.Video.RuntimeMinutes)
		add("Rating", it.Video.Rating)
		add("Format", it.Video.Format)
		add("Genre", it.Video.Genre)
	}
	add("Notes", it.Notes)
	return tw.Render()
}
