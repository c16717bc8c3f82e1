package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lepinkainen/mediacat/internal/catalog"
	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/errors"
)

// CatalogCmd groups the catalog subcommands
type CatalogCmd struct {
	List           CatalogListCmd           `cmd:"" help:"List catalog items"`
	Show           CatalogShowCmd           `cmd:"" help:"Show one catalog item"`
	AddFromBarcode CatalogAddFromBarcodeCmd `cmd:"" name:"add-from-barcode" help:"Resolve a barcode and add the result to the catalog"`
	Delete         CatalogDeleteCmd         `cmd:"" help:"Delete a catalog item"`
}

// CatalogListCmd lists catalog items
type CatalogListCmd struct {
	Query  string `short:"q" help:"Match title, media type or genre"`
	SortBy string `help:"Sort order" enum:"date_added,title,type,year" default:"date_added"`
	Format string `short:"F" help:"Output format" enum:"text,json,yaml" default:"text"`
}

func (c *CatalogListCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := openCatalog(cfg.Catalog.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items, err := store.List(ctx, catalog.ListOptions{Query: c.Query, SortBy: c.SortBy})
	if err != nil {
		return err
	}
	if items == nil {
		items = []catalog.Item{}
	}
	if done, err := writeStructured(out, c.Format, items); done {
		return err
	}
	_, err = fmt.Fprintln(out, renderItemsTable(items))
	return err
}

// CatalogShowCmd shows a single item
type CatalogShowCmd struct {
	ID     int64  `arg:"" help:"Item id"`
	Format string `short:"F" help:"Output format" enum:"text,json,yaml" default:"text"`
}

func (c *CatalogShowCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := openCatalog(cfg.Catalog.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	item, err := store.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	if done, err := writeStructured(out, c.Format, item); done {
		return err
	}
	_, err = fmt.Fprintln(out, renderItem(item))
	return err
}

// CatalogAddFromBarcodeCmd resolves a barcode and saves the draft
type CatalogAddFromBarcodeCmd struct {
	Barcode string `arg:"" help:"ISBN-10, ISBN-13, UPC-A or EAN-13 code"`
	Notes   string `help:"Notes to store with the item"`
	Genre   string `help:"Genre to store with the item"`
	Title   string `help:"Title to use when the lookup returns none"`
}

func (c *CatalogAddFromBarcodeCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache(db)

	md, err := newResolver(cfg, db).ResolveBarcode(ctx, c.Barcode)
	if errors.IsNotFound(err) {
		return fmt.Errorf("no metadata found for barcode %q", c.Barcode)
	}
	if err != nil {
		return err
	}

	item := catalog.DraftFromMetadata(md)
	if item.Title == "" {
		item.Title = strings.TrimSpace(c.Title)
	}
	item.Notes = c.Notes
	setGenre(item, c.Genre)

	store, err := openCatalog(cfg.Catalog.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.Create(ctx, item)
	if err != nil {
		return err
	}
	slog.Info("Added catalog item", "id", id, "title", item.Title, "media_type", item.MediaType)
	_, err = fmt.Fprintf(out, "Added %s %q as #%d\n", item.MediaType, item.Title, id)
	return err
}

func setGenre(item *catalog.Item, genre string) {
	switch {
	case item.Book != nil:
		item.Book.Genre = genre
	case item.Audio != nil:
		item.Audio.Genre = genre
	case item.Video != nil:
		item.Video.Genre = genre
	}
}

// CatalogDeleteCmd deletes an item
type CatalogDeleteCmd struct {
	ID int64 `arg:"" help:"Item id"`
}

func (c *CatalogDeleteCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, err := openCatalog(cfg.Catalog.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Delete(ctx, c.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Deleted #%d\n", c.ID)
	return err
}
