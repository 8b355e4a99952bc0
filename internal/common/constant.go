package common

// Remote collection names. They double as the JSON field names of the
// import/export document.
const (
	CollectionDemands      = "demands"
	CollectionVacations    = "vacations"
	CollectionEmployees    = "employees"
	CollectionCertificates = "certificates"
	CollectionStatuses     = "demandStatuses"
)

// Collections lists every collection the document store accepts.
var Collections = []string{
	CollectionDemands,
	CollectionVacations,
	CollectionEmployees,
	CollectionCertificates,
	CollectionStatuses,
}

// IsCollection reports whether name is one of Collections.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
