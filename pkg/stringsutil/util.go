package stringsutil

// RemoveEmptyStrings drops empty entries, typically after splitting a
// comma-separated env value such as EVAL_K_VALUES or CORS_ORIGINS.
func RemoveEmptyStrings(slice []string) []string {
	result := make([]string, 0, len(slice))

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}
