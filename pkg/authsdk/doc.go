/*
Package authsdk is a client for the authlab read-only dataset API.

	client := authsdk.NewSDKClient("http://localhost:8080")

	tables, err := client.ListTables(ctx)
	page, err := client.ReadTable(ctx, "sessions", 50, 0)
	report, err := client.GetValidation(ctx)
	findings, err := client.GetATOFindings(ctx)

Every non-2xx response is returned as an *APIError carrying the HTTP status
and the server's error code. The types in this package are also the wire
format the server writes.
*/
package authsdk
