// Package beacon bridges real browsers to analytics.Tracker over WebSocket.
//
// A small page script opens a connection and greets the server with the browser's
// ambient state. The server answers with a client id the script keeps in its own
// localStorage and sends back on reconnect, so a reload within the session timeout
// resumes the same session.
//
//	→ {"type":"hello","clientId":"","userAgent":"...","screen":{"width":390,"height":844},
//	   "language":"de-DE","referrer":"https://www.google.com/","origin":"https://moi.example","path":"/"}
//	← {"type":"welcome","clientId":"01J...","sessionId":"1779040800000-k3v9x0a1b","returning":false}
//
// After the greeting the script forwards DOM activity:
//
//	{"type":"navigate","path":"/menu"}                     router navigation
//	{"type":"popstate","path":"/"}                         history navigation
//	{"type":"click","target":{"tag":"a","href":"...","text":"...","parent":{...}}}
//	{"type":"scroll","top":500,"documentHeight":2000,"viewportHeight":1000}
//	{"type":"event","eventType":"order","eventName":"order_start","metadata":{...}}
//	{"type":"stop"}                                        page hide; answered with "stopped"
//
// Malformed or unknown messages are answered with {"type":"error","error":"..."} and the
// connection stays open. Closing the connection stops the tracker the same way "stop" does.
//
// Every connection gets its own tracker. Their local storage shares one localstore.Store
// under the key prefix "client:<id>:", typically Redis when several replicas serve the
// same site.
//
//	h := beacon.NewHandler(cfg, redisLocal, records,
//		beacon.WithLogger(log),
//		beacon.WithConnectionObserver(metrics),
//		beacon.WithTrackerOptions(analytics.WithObserver(metrics)),
//	)
//	mux.Handle("/ws", h)
//	defer h.Shutdown(ctx)
package beacon
