package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"leadpilot/internal/campaign"
)

// SampleLeads is the demo dataset written by WriteSampleLeads.
var SampleLeads = []*campaign.Lead{
	{FirstName: "Ada", LastName: "Quinn", Email: "ada@helioscale.io", Company: "Helioscale", Title: "CTO", Industry: "Renewable Energy", Location: "Austin"},
	{FirstName: "Marcus", LastName: "Webb", Email: "marcus@ferrostack.com", Company: "Ferrostack", Title: "VP Engineering", Industry: "Manufacturing", Location: "Detroit"},
	{FirstName: "Priya", LastName: "Nair", Email: "priya@clariohealth.com", Company: "Clario Health", Title: "Head of Operations", Industry: "Healthcare", Location: "Boston"},
	{FirstName: "Tomas", LastName: "Rivera", Email: "tomas@andinofoods.mx", Company: "Andino Foods", Title: "IT Director", Industry: "Food and Beverage", Location: "Mexico City"},
	{FirstName: "Lena", LastName: "Hoffmann", Email: "lena@nordwindlog.de", Company: "Nordwind Logistics", Title: "COO", Industry: "Logistics", Location: "Hamburg"},
}

// WriteSampleLeads writes a small demo lead file with input columns
// only. Derived columns appear once a campaign has run over it.
func WriteSampleLeads(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(Header[:inputColumns]); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	for _, lead := range SampleLeads {
		row := []string{
			lead.FirstName, lead.LastName, lead.Email, lead.Company,
			lead.Title, lead.Industry, lead.Location,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrUnwritable, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	return nil
}
