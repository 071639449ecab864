// Package compdex is a Go client for a company directory search API.
//
// A search combines optional filters (industries, revenue and employee bands,
// cities, countries) into one API request and flattens every returned company
// into a fixed row of 14 columns, "N/A" standing in for missing fields.
//
//	client, _ := compdex.New(compdex.WithToken(os.Getenv("API_TOKEN")))
//	defer client.Close()
//
//	res, err := client.Search(ctx, compdex.Filters().
//	    Industries("Information Technology").
//	    Countries("France", "de").
//	    Revenues("10m-50m").
//	    Size(25))
//	if errors.Is(err, compdex.ErrEmptyResult) {
//	    // nothing matched
//	}
//	for _, row := range res.Rows {
//	    fmt.Println(row.Get("Company Name"), row.Get("Website"))
//	}
//
// ExportCSV appends the same rows to a CSV file, writing the header only when
// the file is new or empty.
//
// # Page cache
//
// WithCache stores successful pages in Redis or Valkey so repeated searches
// skip the API:
//
//	client, _ := compdex.New(
//	    compdex.WithToken(token),
//	    compdex.WithCache("localhost:6379", "", time.Hour),
//	)
package compdex
