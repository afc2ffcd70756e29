package report

import (
	"context"
	"fmt"
	"strings"

	"storefront/pkg/logger"
)

// Encoder serializes a header and rows into one file format.
type Encoder interface {
	Encode(header []string, rows [][]string) ([]byte, error)
	ContentType() string
	Extension() string
}

// Downloader hands a finished export to whoever saves it: an HTTP
// attachment or a file on disk.
type Downloader interface {
	Download(ctx context.Context, export Export) error
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// Export serializes one record set. Only orders are filtered by the range.
func (s *Service) Export(ctx context.Context, kind Kind, r DateRange, format string) (Export, error) {
	if format == "" {
		format = "csv"
	}
	enc, ok := s.encoders[strings.ToLower(format)]
	if !ok {
		return Export{}, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}

	schema := kind.Schema()
	records := s.Records(ctx, kind, r)
	body, err := enc.Encode(schema.Header(), schema.Rows(records))
	if err != nil {
		return Export{}, fmt.Errorf("encode %s: %w", schema.Kind, err)
	}

	return Export{
		Filename:    fmt.Sprintf("reporte_%s_%s.%s", schema.Kind, s.now().In(s.loc).Format(dateLayout), enc.Extension()),
		ContentType: enc.ContentType(),
		Body:        body,
		Rows:        len(records),
	}, nil
}

// Download exports and hands the file to d.
func (s *Service) Download(ctx context.Context, d Downloader, kind Kind, r DateRange, format string) (Export, error) {
	export, err := s.Export(ctx, kind, r, format)
	if err != nil {
		return Export{}, err
	}
	if err := d.Download(ctx, export); err != nil {
		return Export{}, fmt.Errorf("download %s: %w", export.Filename, err)
	}
	s.log.Info("report exported",
		logger.String("file", export.Filename),
		logger.Int("rows", export.Rows),
	)
	return export, nil
}
