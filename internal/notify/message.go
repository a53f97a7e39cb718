package notify

import (
	"fmt"

	"pricewatch/internal/models"
)

// BuildDealMessage formats the alert text for an improved deal.
func BuildDealMessage(summary *models.ProductSummary, currentPercent, previousPercent float64) string {
	return fmt.Sprintf(
		"🎉 Better Deal Alert!\n\n"+
			"%s\n"+
			"💰 Now: $%.2f (was $%.2f)\n"+
			"📉 Discount: %.1f%% off\n"+
			"💵 Save: $%.2f\n"+
			"🏪 Best at: %s\n\n"+
			"Previous best discount: %.1f%%",
		summary.ProductName,
		summary.BestPrice,
		summary.AveragePrice,
		currentPercent,
		summary.SavingsAmount,
		summary.BestRetailer,
		previousPercent,
	)
}
