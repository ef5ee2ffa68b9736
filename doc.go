// Package dynstruct provides Record, a schema-less container of named
// values.
//
// A Record is built from a non-empty source collection and then grows by
// assignment. Fields are reachable two ways:
//
//   - Through the dispatcher: Send("name") reads a field, Send("name=", v)
//     writes one. Names of reserved operations ("each", "inspect",
//     "isEmpty", ...) always dispatch to the operation, never to a field.
//   - Through the key/value interface: Get, Value and Set.
//
// Reads of unknown fields return nil rather than an error, and writes
// always succeed. The only failure is constructing a record from a
// missing, empty or non-mapping source.
//
// Keys are normalized before storage, so "name", ":name" and `"name"`
// address the same slot.
//
// # Example
//
//	rec, err := dynstruct.New(dynstruct.Fields{
//	    dynstruct.F("first", "first"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rec.Send("second=", "second")
//	fmt.Println(rec) // <Record first="first" second="second">
//
// Records are not safe for concurrent mutation; callers serialize access.
package dynstruct
