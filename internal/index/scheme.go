package index

var (
	bCursor    = []byte("cursor")    // cursor name -> index (uint64)
	bAnnounced = []byte("announced") // invTime(8) + invSeq(8) -> announcement json
)
