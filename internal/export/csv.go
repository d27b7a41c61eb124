package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bartolomema-prog/listasbebe/internal/model"
)

var csvHeaders = []string{
	"Lista",
	"Producto",
	"Precio",
	"Marca",
	"Modelo",
	"Estado",
	"Comprador",
	"Teléfono Comprador",
	"Fecha Compra",
	"Recogido",
	"Pagado",
	"Cantidad Pagada",
	"Reservado",
	"Visto (Verde)",
	"Color Estado",
	"Fecha Creación",
}

// ItemsCSV renders every item of the given lists as a UTF-8 CSV backup.
// Column order is fixed so existing spreadsheets keep working.
func ItemsCSV(lists []model.ShoppingList, items []model.ListItem) ([]byte, error) {
	names := make(map[int64]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		listName, ok := names[item.ListID]
		if !ok {
			listName = "Desconocida"
		}

		status := "Pendiente"
		if item.IsPurchased {
			status = "Comprado"
		}

		row := []string{
			listName,
			item.Name,
			formatPrice(item.Price),
			item.Brand,
			item.Model,
			status,
			derefString(item.PurchaserName),
			derefString(item.PurchaserPhone),
			formatDate(item.PurchaseDate),
			yesNo(item.IsPickedUp),
			yesNo(item.IsPaid),
			formatPrice(derefFloat(item.AmountPaid)),
			yesNo(item.IsReserved),
			yesNo(item.IsGreenChecked),
			item.ColorStatus.Text(),
			item.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the dated download name for a backup export.
func Filename(now time.Time) string {
	return fmt.Sprintf("backup_listas_bebe_%s.csv", now.Format("2006-01-02"))
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
