package aggregate_test

import (
	"fmt"

	"finadmin/internal/aggregate"
	"finadmin/pkg/models"
)

func ExampleTopDebtorSeries() {
	debtors := []models.TopDebtor{
		{ClientEmail: "acme@example.com", Outstanding: 100},
		{ClientEmail: "globex@example.com", Outstanding: 80},
		{ClientEmail: "initech@example.com", Outstanding: 60},
		{ClientEmail: "hooli@example.com", Outstanding: 40},
		{ClientEmail: "umbrella@example.com", Outstanding: 20},
	}

	for _, s := range aggregate.TopDebtorSeries(debtors, 3, 320) {
		fmt.Printf("%s: %.0f\n", s.Label, s.Value)
	}
	// Output:
	// acme@example.com: 100
	// globex@example.com: 80
	// initech@example.com: 60
	// Others: 80
}
