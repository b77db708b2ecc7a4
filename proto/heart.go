package proto

// HeartPayload is the heartbeat request's (empty) payload.
var HeartPayload = []byte{}
