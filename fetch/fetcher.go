package fetch

// Request describes one asynchronous fetch. Buffer is the destination the
// provider reads into; its length bounds how much may be fetched. UserData
// is threaded through to the Response untouched so completion handlers can
// route back to the submitter.
type Request struct {
	Path     string
	Channel  int
	Buffer   []byte
	UserData uint64
	Callback func(Response)
}

// Response reports the outcome of a Request. On success Data aliases the
// request's Buffer.
type Response struct {
	Channel  int
	UserData uint64
	Fetched  bool
	Data     []byte
	Err      error
}

// Fetcher is the seam over the asynchronous I/O provider. Send never blocks
// and the callback never runs before Send returns; completions fire inside
// Dowork on the calling goroutine, each exactly once.
type Fetcher interface {
	Send(Request) bool
	Dowork()
	Close() error
}
