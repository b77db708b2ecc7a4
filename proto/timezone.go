package proto

import "time"

// beijing is the fixed UTC+8 offset every wall-clock field in this protocol
// is expressed in. The protocol predates Go's tzdata-based locations and the
// servers never observe DST, so a FixedZone is both correct and avoids a
// dependency on the system timezone database.
var beijing = time.FixedZone("CST", 8*3600)
