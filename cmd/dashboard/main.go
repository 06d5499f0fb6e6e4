// Command dashboard is a terminal consumer of the generic table
// controller: it fetches one page of the user listing from a running API
// and prints it, mirroring what the web dashboard renders.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"staffdesk/pkg/datatable"
)

type userRow struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	IsActive bool   `json:"isActiveUser"`
}

func userColumns() []datatable.Column {
	return []datatable.Column{
		{Key: "id", Header: "ID"},
		{Key: "username", Header: "Name", Sortable: true, Filterable: true, Filter: datatable.FilterText},
		{Key: "email", Header: "Email", Sortable: true, Filterable: true, Filter: datatable.FilterText},
		{Key: "isActiveUser", Header: "Status", Sortable: true, Filterable: true, Filter: datatable.FilterSelect,
			Options: []datatable.Option{
				{Label: "Active User", Value: "true"},
				{Label: "Deactivated User", Value: "false"},
			}},
	}
}

func main() {
	baseURL := flag.String("url", "http://127.0.0.1:8080", "API base URL")
	token := flag.String("token", os.Getenv("STAFFDESK_TOKEN"), "bearer token")
	page := flag.Int("page", 1, "page number (1-based)")
	limit := flag.Int("limit", 10, "page size")
	search := flag.String("search", "", "global username search")
	name := flag.String("name", "", "username column filter")
	status := flag.String("status", "", "status filter: true or false")
	sortKey := flag.String("sort", "", "sort column (username, email, isActiveUser)")
	desc := flag.Bool("desc", false, "sort descending")
	flag.Parse()

	client := datatable.NewListingClient[userRow](*baseURL, "/api/v1/users", func() string { return *token })
	table := datatable.New(datatable.Config[userRow]{
		Columns:  userColumns(),
		Fetcher:  client,
		PageSize: *limit,
	})

	table.Start(context.Background())
	table.Wait()
	if *search != "" {
		table.SetSearch(*search)
	}
	if *name != "" {
		table.SetFilter("username", *name)
	}
	if *status != "" {
		table.SetFilter("isActiveUser", *status)
	}
	if *sortKey != "" {
		table.ToggleSort(*sortKey, false)
		if *desc {
			table.ToggleSort(*sortKey, false)
		}
	}
	if *page > 1 {
		table.SetPage(*page - 1)
	}
	table.Wait()

	snap := table.Snapshot()
	if snap.Err != nil {
		fmt.Fprintln(os.Stderr, "listing failed:", snap.Err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS")
	for _, r := range snap.Rows {
		status := "Active User"
		if !r.IsActive {
			status = "Deactivated User"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Username, r.Email, status)
	}
	w.Flush()
	fmt.Printf("page %d of %d, %d users total\n", snap.Page, snap.LastPage, snap.Total)
}
