// Package report renders a summary of an extraction run.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/ralt/apkstats/internal/models"
)

// PermissionCount is how many packages request a permission
type PermissionCount struct {
	Name     string
	Packages int
}

// Summary aggregates counters over the records of one run
type Summary struct {
	Packages       int
	Failed         int
	Activities     int
	Services       int
	Receivers      int
	Providers      int
	TopPermissions []PermissionCount
}

// Summarize builds a summary listing at most top permissions
func Summarize(records []*models.ApkData, top int) Summary {
	var s Summary
	permissions := make(map[string]int)

	for _, r := range records {
		s.Packages++
		if r.Error != "" {
			s.Failed++
		}
		m := r.AndroidManifest
		if m == nil {
			continue
		}
		s.Activities += m.NumberOfActivities
		s.Services += m.NumberOfServices
		s.Receivers += m.NumberOfBroadcastReceivers
		s.Providers += m.NumberOfContentProviders
		for _, p := range m.UsesPermissions {
			permissions[p]++
		}
	}

	for name, n := range permissions {
		s.TopPermissions = append(s.TopPermissions, PermissionCount{Name: name, Packages: n})
	}
	sort.Slice(s.TopPermissions, func(i, j int) bool {
		a, b := s.TopPermissions[i], s.TopPermissions[j]
		if a.Packages != b.Packages {
			return a.Packages > b.Packages
		}
		return a.Name < b.Name
	})
	if top >= 0 && len(s.TopPermissions) > top {
		s.TopPermissions = s.TopPermissions[:top]
	}

	return s
}

// Render writes the summary as two tables
func (s Summary) Render(w io.Writer) {
	totals := tablewriter.NewWriter(w)
	totals.SetHeader([]string{"Packages", "Failed", "Activities", "Services", "Receivers", "Providers"})
	totals.SetAutoWrapText(false)
	totals.Append([]string{
		strconv.Itoa(s.Packages),
		strconv.Itoa(s.Failed),
		strconv.Itoa(s.Activities),
		strconv.Itoa(s.Services),
		strconv.Itoa(s.Receivers),
		strconv.Itoa(s.Providers),
	})
	totals.Render()

	if len(s.TopPermissions) == 0 {
		return
	}

	fmt.Fprintln(w)
	perms := tablewriter.NewWriter(w)
	perms.SetHeader([]string{"Permission", "Packages"})
	perms.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	perms.SetAutoWrapText(false)
	for _, p := range s.TopPermissions {
		perms.Append([]string{p.Name, strconv.Itoa(p.Packages)})
	}
	perms.Render()
}
