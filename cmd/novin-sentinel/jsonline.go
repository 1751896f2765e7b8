package main

import "encoding/json"

// jsonLine marshals v as a single compact JSON line for stdout output.
func jsonLine(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
