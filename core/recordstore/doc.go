// Package recordstore defines the remote persistence API used by the tracker: a generic
// table store with Insert, filtered Update and filtered, ordered, limited Select.
//
// Filters are conjunctions of column equality conditions:
//
//	err := store.Update(ctx, "page_views",
//		[]recordstore.Condition{recordstore.Eq("id", viewID)},
//		recordstore.Record{"ended_at": now, "time_on_page": 12})
//
//	rows, err := store.Select(ctx, "page_views", recordstore.Query{
//		Filter: []recordstore.Condition{recordstore.Eq("session_id", sid)},
//		Order:  &recordstore.Order{Column: "created_at", Desc: true},
//		Limit:  1,
//	})
//
// Memory is the in-process implementation. Backends live under integration/database:
// postgrest (Supabase), pg and mongo.
package recordstore
