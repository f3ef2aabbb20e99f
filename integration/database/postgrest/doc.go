// Package postgrest is a recordstore.Store over a PostgREST endpoint, the REST layer of a
// hosted Postgres such as Supabase. It wraps github.com/supabase-community/postgrest-go.
//
// Requests authenticate with the project's public anonymous key, sent both as the apikey
// header and as a bearer token. Schema, migrations and row level security belong to the
// hosted project.
//
//	client, err := postgrest.New(postgrest.Config{
//		URL:     os.Getenv("SUPABASE_URL"),
//		AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//	tracker := analytics.New(browser, local, client)
//
// Filters render as column=eq.value query parameters, ordering as order=column.desc.nullslast
// and limits as limit=n. Writes ask for Prefer: return=minimal.
//
// PostgREST error bodies become *APIError; transport failures and timeouts wrap
// ErrRequestFailed. Both match ErrRequestFailed with errors.Is.
package postgrest
