package report

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/record"
	"storefront/internal/infrastructure/encoding/csv"
	"storefront/internal/infrastructure/persistence/kvstore"
	"storefront/internal/infrastructure/sample"
	"storefront/internal/infrastructure/storage"
)

type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) Download(ctx context.Context, export Export) error {
	args := m.Called(ctx, export)
	return args.Error(0)
}

type staticSource struct {
	records []record.Record
	ok      bool
}

func (s staticSource) LoadRecords(context.Context) ([]record.Record, bool) {
	return s.records, s.ok
}

func decode(t *testing.T, raw string) []record.Record {
	t.Helper()
	out, err := record.Decode([]byte(raw))
	require.NoError(t, err)
	return out
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = record.Text(r["id"])
	}
	return out
}

const datedOrders = `[
	{"id":"jan","fecha":"2025-01-01","total":100},
	{"id":"jun","fecha":"2025-06-15T10:00:00","total":200},
	{"id":"dec","fecha":"2025-12-31 23:00:00","monto":"300"}
]`

func TestFilterOrders(t *testing.T) {
	orders := decode(t, datedOrders)

	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{name: "june only", start: "2025-06-01", end: "2025-06-30", want: []string{"jun"}},
		{name: "no bounds", want: []string{"jan", "jun", "dec"}},
		{name: "start only", start: "2025-06-15", want: []string{"jun", "dec"}},
		{name: "end day is inclusive", end: "2025-12-31", want: []string{"jan", "jun", "dec"}},
		{name: "end only", end: "2025-01-01", want: []string{"jan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.start, tt.end, time.UTC)
			require.NoError(t, err)

			got := FilterOrders(orders, r, time.UTC)

			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterOrders_UnreadableDatesAlwaysPass(t *testing.T) {
	orders := decode(t, `[{"id":"bad","fecha":"yesterday"},{"id":"none"},{"id":"jun","fecha":"2025-06-15"}]`)
	r, err := ParseRange("2030-01-01", "2030-01-02", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"bad", "none"}, ids(FilterOrders(orders, r, time.UTC)))
}

func TestFilterOrders_EndOfDayBoundary(t *testing.T) {
	orders := decode(t, `[
		{"id":"last-ms","fecha":1750031999999},
		{"id":"next-day","fecha":1750032000000}
	]`)
	r, err := ParseRange("", "2025-06-15", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{"last-ms"}, ids(FilterOrders(orders, r, time.UTC)))
}

func TestParseRange_Invalid(t *testing.T) {
	_, err := ParseRange("15/06/2025", "", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseRange("", "junio", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSummarize(t *testing.T) {
	got := Summarize(decode(t, datedOrders))

	assert.True(t, got.TotalVentas.Equal(decimal.NewFromInt(600)), got.TotalVentas.String())
	assert.Equal(t, 3, got.CantidadVentas)
}

func TestSortNewestFirst(t *testing.T) {
	orders := decode(t, `[
		{"id":"undated"},
		{"id":"jan","fecha":"2025-01-01"},
		{"id":"dec","fecha":"2025-12-31"},
		{"id":"jun","fecha":"2025-06-15"}
	]`)

	assert.Equal(t, []string{"dec", "jun", "jan", "undated"}, ids(SortNewestFirst(orders, time.UTC)))
}

func TestService_Load_FallsBackIndependently(t *testing.T) {
	stored := decode(t, `[{"id":"mine","total":1}]`)
	svc := NewService(
		Sources{
			Orders:   staticSource{records: stored, ok: true},
			Users:    staticSource{ok: false},
			Products: nil,
		},
		Fallbacks{
			Orders:   sample.OrderRecords,
			Users:    sample.UserRecords,
			Products: sample.ProductRecords,
		},
	)

	data := svc.Load(context.Background())

	assert.Equal(t, []string{"mine"}, ids(data.Orders))
	assert.Equal(t, sample.UserRecords(), data.Users)
	assert.Equal(t, sample.ProductRecords(), data.Products)
}

func TestService_Report_UsesSampleWhenLogIsCorrupt(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea()
	require.NoError(t, area.Set(ctx, kvstore.KeyOrders, []byte(`corrupt`)))
	svc := NewService(
		Sources{Orders: kvstore.NewOrderRepository(area, nil)},
		Fallbacks{Orders: sample.OrderRecords},
	)

	result := svc.Report(ctx, DateRange{})

	assert.Equal(t, []string{"ord-1001", "ord-1000", "ord-0999"}, ids(result.Orders))
	assert.Equal(t, 3, result.Summary.CantidadVentas)
	assert.True(t, result.Summary.TotalVentas.Equal(decimal.NewFromInt(59000)), result.Summary.TotalVentas.String())
}

func TestService_Contacts_MergesBundledAndStoredNewestFirst(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea()
	require.NoError(t, area.Set(ctx, kvstore.KeyContacts, []byte(`[
		{"nombre":"Pedro","apellido":"Lagos","correo":"pedro@example.com","mensaje":"Hola","fecha":"2025-10-11T08:00:00.000Z"},
		{"nombre":"Sin fecha","texto":"?"}
	]`)))
	svc := NewService(
		Sources{Contacts: kvstore.NewContactRepository(area, nil)},
		Fallbacks{Contacts: sample.ContactRecords},
	)

	contacts := svc.Contacts(ctx)

	require.Len(t, contacts, 5)
	names := make([]string, len(contacts))
	for i, c := range contacts {
		names[i] = record.Contacts.Fields[0].Text(c)
	}
	assert.Equal(t, []string{"Pedro Lagos", "Valentina Soto", "Camila Rojas", "Diego Fuentes", "Sin fecha"}, names)
	assert.Equal(t, []string{"Pedro Lagos", "pedro@example.com", "Hola", "2025-10-11T08:00:00.000Z"}, record.Contacts.Row(contacts[0]))
}

func TestService_Contacts_CorruptStoreKeepsBundled(t *testing.T) {
	ctx := context.Background()
	area := storage.NewMemoryArea()
	require.NoError(t, area.Set(ctx, kvstore.KeyContacts, []byte(`{oops`)))
	svc := NewService(
		Sources{Contacts: kvstore.NewContactRepository(area, nil)},
		Fallbacks{Contacts: sample.ContactRecords},
	)

	assert.Len(t, svc.Contacts(ctx), 3)
	assert.Empty(t, NewService(Sources{}, Fallbacks{}).Contacts(ctx))
}

func TestService_Export_ContactsCSV(t *testing.T) {
	svc := NewService(
		Sources{},
		Fallbacks{Contacts: sample.ContactRecords},
		WithEncoder("csv", csv.NewEncoder()),
		WithClock(func() time.Time { return time.Date(2025, 10, 12, 9, 0, 0, 0, time.UTC) }),
	)

	export, err := svc.Export(context.Background(), KindContacts, DateRange{}, "csv")

	require.NoError(t, err)
	assert.Equal(t, "reporte_contactos_2025-10-12.csv", export.Filename)
	assert.Equal(t, 3, export.Rows)
	assert.True(t, strings.HasPrefix(string(export.Body), `"nombre","email","texto","fecha"`+"\n"+`"Valentina Soto"`))
}

func newExportService(orders string) *Service {
	src := staticSource{ok: true}
	if orders != "" {
		src.records, _ = record.Decode([]byte(orders))
	}
	return NewService(
		Sources{Orders: src},
		Fallbacks{Users: sample.UserRecords, Products: sample.ProductRecords},
		WithEncoder("csv", csv.NewEncoder()),
		WithClock(func() time.Time { return time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC) }),
	)
}

func TestService_Export_OrdersCSV(t *testing.T) {
	svc := newExportService(`[
		{"id":"o1","fecha":"2025-06-15","total":30000,
		 "cliente":{"nombre":"Juan","apellido":"Pérez","correo":"juan@example.com"},
		 "productos":[{"title":"Elden Ring","qty":2},{"title":"Say \"hi\", ok","qty":1}]},
		{"id":"o2","fecha":"2025-01-01","cliente":"Ana","monto":500}
	]`)
	r, err := ParseRange("2025-06-01", "2025-06-30", time.UTC)
	require.NoError(t, err)

	export, err := svc.Export(context.Background(), KindOrders, r, "")

	require.NoError(t, err)
	assert.Equal(t, "reporte_ordenes_2025-06-15.csv", export.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType)
	assert.Equal(t, 1, export.Rows)

	rows, err := stdcsv.NewReader(bytes.NewReader(export.Body)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "cliente", "email_cliente", "total", "fecha", "items"},
		{"o1", "Juan Pérez", "juan@example.com", "30000", "2025-06-15", `Elden Ring x2; Say "hi", ok x1`},
	}, rows)
}

func TestService_Export_ProductsAndUsersIgnoreRange(t *testing.T) {
	svc := newExportService("")
	r, err := ParseRange("2030-01-01", "2030-01-01", time.UTC)
	require.NoError(t, err)

	products, err := svc.Export(context.Background(), KindProducts, r, "csv")
	require.NoError(t, err)
	assert.Equal(t, "reporte_productos_2025-06-15.csv", products.Filename)
	assert.Equal(t, len(sample.ProductRecords()), products.Rows)
	assert.True(t, bytes.HasPrefix(products.Body, []byte(`"id","titulo","descripcion","precio","categoria","stock"`+"\n")))

	users, err := svc.Export(context.Background(), KindUsers, r, "csv")
	require.NoError(t, err)
	assert.Equal(t, len(sample.UserRecords()), users.Rows)
}

func TestService_Export_UnknownFormat(t *testing.T) {
	_, err := newExportService("").Export(context.Background(), KindUsers, DateRange{}, "pdf")

	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestService_Download(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := newExportService(`[]`)
	downloader := new(MockDownloader)
	downloader.On("Download", ctx, mock.MatchedBy(func(e Export) bool {
		return e.Filename == "reporte_usuarios_2025-06-15.csv" && len(e.Body) > 0
	})).Return(nil).Once()

	// Act
	export, err := svc.Download(ctx, downloader, KindUsers, DateRange{}, "csv")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "reporte_usuarios_2025-06-15.csv", export.Filename)
	downloader.AssertExpectations(t)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"orders": KindOrders, "ORDENES": KindOrders,
		"productos": KindProducts, "users": KindUsers, " usuarios ": KindUsers,
		"contactos": KindContacts, "Contacts": KindContacts,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("mensajes")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
