package model

import "strconv"

// FormatINR renders an amount in rupees without trailing zeros, e.g. ₹4500.
func FormatINR(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64)
}
