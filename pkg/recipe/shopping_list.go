package recipe

import (
	"fmt"
	"strings"
	"time"

	"Foodgram-Backend/domain"
)

// RenderShoppingList formats aggregated items as the downloadable text file.
func RenderShoppingList(items []domain.ShoppingListItem, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %d/%d/%d\n\n", now.Day(), int(now.Month()), now.Year())
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	fmt.Fprintf(&b, "\nFoodgram, %d\n", now.Year())
	return b.String()
}
