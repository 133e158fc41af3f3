package session

// RoomID derives the pairwise room key for two user UIDs. The smaller UID
// always comes first, so both participants compute the identical key no
// matter who initiates: RoomID(a, b) == RoomID(b, a).
func RoomID(a, b string) string {
	if a < b {
		return a + "_" + b
	}
	return b + "_" + a
}
