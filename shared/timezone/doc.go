// Package timezone pins the resort's wall clock. Stays are calendar dates at the
// resort, so check-in and check-out are parsed and formatted here rather than in UTC:
//
//	checkIn, err := timezone.ParseDate("2025-08-01") // midnight at the resort
//	checkOut := timezone.FormatDate(checkIn.AddDate(0, 0, 7))
//	today := timezone.Today()
//
// The zone comes from APP_TIMEZONE as an IANA name such as "Asia/Kolkata" and is
// loaded when the package is first imported. UTC is used when it is unset or unknown.
package timezone
