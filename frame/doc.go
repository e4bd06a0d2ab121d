// Package frame defines the wire format of the assistant stream: tagged,
// self-delimited parts a client-side reducer consumes one by one. Each frame
// is a single line of the form "<code>:<json>\n" where the numeric code
// selects the payload shape:
//
//   - 0: text — a JSON string holding an incremental text fragment
//   - 3: error — a JSON string describing a failure
//   - 4: assistant_message — a full assistant message object
//   - 5: control — thread/message identifiers, always the first frame
//   - 6: data_message — an opaque application-defined JSON value
//
// Because payload JSON never contains a raw newline, concatenated frames can
// be split back into the original ordered (kind, payload) pairs without any
// additional length prefixing. Decode exists for exactly that round trip.
package frame
