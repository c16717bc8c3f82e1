package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
)

type barcodeResolver interface {
	ResolveBarcode(ctx context.Context, raw string) (*media.NormalizedMetadata, error)
}

type photoResolver interface {
	ResolvePhoto(ctx context.Context, image []byte) (*media.NormalizedMetadata, error)
}

// LookupCmd represents the barcode lookup command
type LookupCmd struct {
	Barcode string `arg:"" help:"ISBN-10, ISBN-13, UPC-A or EAN-13 code"`
	Format  string `short:"F" help:"Output format" enum:"text,json,yaml" default:"text"`
}

func (l *LookupCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache(db)

	md, err := newResolver(cfg, db).ResolveBarcode(ctx, l.Barcode)
	if errors.IsNotFound(err) {
		return fmt.Errorf("no metadata found for barcode %q", l.Barcode)
	}
	if err != nil {
		return err
	}
	return writeMetadata(out, l.Format, md)
}

// PhotoCmd represents the photo resolution command
type PhotoCmd struct {
	File   string `arg:"" help:"Image file (JPEG or PNG)" type:"existingfile"`
	Format string `short:"F" help:"Output format" enum:"text,json,yaml" default:"text"`
}

func (p *PhotoCmd) Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	image, err := os.ReadFile(p.File)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	md, err := newPhotoResolver(cfg).ResolvePhoto(ctx, image)
	if err != nil {
		return err
	}
	return writeMetadata(out, p.Format, md)
}
