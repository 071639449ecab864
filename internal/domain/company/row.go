package company

// NotAvailable is written for every field the API did not provide.
const NotAvailable = "N/A"

// ColumnCount is the fixed width of an export row.
const ColumnCount = 14

// Column is one export field and the way it is read from a record.
type Column struct {
	Name    string
	extract func(Record) Value
}

func path(p ...string) func(Record) Value {
	return func(r Record) Value { return r.Get(p...) }
}

// Schema is the ordered export layout shared by CSV and table output.
var Schema = [ColumnCount]Column{
	{"Company Name", path("name")},
	{"Employees", path("totalEmployees")},
	{"Revenue", path("revenue")},
	{"City", path("city", "name")},
	{"Country", path("country", "name")},
	{"Working Sphere", path("industryMain")},
	{"Website", website},
	{"Phone Number", path("phoneNumber")},
	{"Facebook", path("socialNetworks", "facebook")},
	{"Instagram", path("socialNetworks", "instagram")},
	{"LinkedIn", path("socialNetworks", "linkedin")},
	{"Pinterest", path("socialNetworks", "pinterest")},
	{"Twitter", path("socialNetworks", "twitter")},
	{"YouTube", path("socialNetworks", "youtube")},
}

// website joins domainName and domainTld; both must be present.
func website(r Record) Value {
	name, tld := r.Get("domainName"), r.Get("domainTld")
	if !name.Present() || !tld.Present() {
		return Value{}
	}
	return Value{v: name.Or("") + "." + tld.Or(""), present: true}
}

// Row is one flattened company. Every field is populated.
type Row [ColumnCount]string

// Header returns the column names in export order.
func Header() []string {
	h := make([]string, ColumnCount)
	for i, c := range Schema {
		h[i] = c.Name
	}
	return h
}

// Flatten maps a record onto the export schema, defaulting absent fields to NotAvailable.
func Flatten(r Record) Row {
	var row Row
	for i, c := range Schema {
		row[i] = c.extract(r).Or(NotAvailable)
	}
	return row
}

// Values returns the row as a slice in column order.
func (r Row) Values() []string {
	return r[:]
}

// Get returns the value of the named column, or "" for an unknown name.
func (r Row) Get(column string) string {
	for i, c := range Schema {
		if c.Name == column {
			return r[i]
		}
	}
	return ""
}
