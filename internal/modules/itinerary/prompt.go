package itinerary

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed itinerary_prompt.md
var itineraryPrompt string

var promptTemplate = template.Must(template.New("itinerary").Parse(itineraryPrompt))

// ExampleResponse is the schema example embedded in every prompt.
const ExampleResponse = `{
  "itinerary": [
    {
      "day": 1,
      "title": "Arrival and Local Sightseeing",
      "activities": [
        "Hotel check-in",
        "Visit local park",
        "Evening leisure walk"
      ],
      "travelIntensity": "Low",
      "estimatedCost": 3000
    }
  ],
  "budgetBreakdown": {
    "stay": 8000,
    "transport": 6000,
    "food": 5000,
    "activities": 4000,
    "totalEstimatedCost": 23000,
    "perDayCost": 3500
  },
  "tips": [
    "Start early to avoid crowds",
    "Keep buffer time for rest"
  ]
}`

type promptData struct {
	FromCity          string
	Destination       string
	NumberOfDays      int
	Budget            string
	FamilyType        string
	FamilyDescription string
	Example           string
}

// BuildPrompt renders the instruction sent to the model. It is pure and deterministic.
func BuildPrompt(req TripRequest) string {
	data := promptData{
		FromCity:          req.FromCity,
		Destination:       req.Destination,
		NumberOfDays:      req.NumberOfDays,
		Budget:            formatAmount(req.Budget),
		FamilyType:        string(req.FamilyType),
		FamilyDescription: req.FamilyType.Description(),
		Example:           ExampleResponse,
	}
	var b strings.Builder
	// Every field is a plain string or int, so execution cannot fail.
	if err := promptTemplate.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}
