package of

import (
	"bytes"
	"io"
	"io/ioutil"
	"reflect"
)

type CookieJar interface {
	SetCookies(uint64)
	Cookies() uint64
}

// CookieReader is the interface to read cookie jars.
//
// CookieReader parses the body of the handling request and returns the
// cookie jar with containing cookies or nil when error occurs.
type CookieReader interface {
	ReadCookie(io.Reader) (CookieJar, error)
}

// The CookieReaderFunc is an adapter to allow use of ordinary functions
// as cookie readers. If fn is a function with the appropriate signature,
// CookieReaderFunc(fn) is a CookieReader that calls fn.
type CookieReaderFunc func(io.Reader) (CookieJar, error)

// ReadCookie calls the function with the specifier reader argument.
func (fn CookieReaderFunc) ReadCookie(r io.Reader) (CookieJar, error) {
	return fn(r)
}

// ReaderFromCookieJar is a CookieJar that can populate itself from an
// OpenFlow message body.
type ReaderFromCookieJar interface {
	CookieJar
	io.ReaderFrom
}

// CookieReaderOf builds a CookieReader around a prototype cookie jar:
// each call to ReadCookie allocates a fresh zero value of proto's
// concrete type and reads it from the given reader.
func CookieReaderOf(proto ReaderFromCookieJar) CookieReader {
	t := reflect.TypeOf(proto).Elem()

	return CookieReaderFunc(func(r io.Reader) (CookieJar, error) {
		jar := reflect.New(t).Interface().(ReaderFromCookieJar)
		if _, err := jar.ReadFrom(r); err != nil {
			return nil, err
		}
		return jar, nil
	})
}

// CookieFilter provides mechanism to hook up the message handler with an
// opaque data. Filter is safe for concurrent use by multiple goroutines.
type CookieFilter struct {
	Cookies uint64

	// Reader is an OpenFlow message unmarshaler. CookieFilter will use the
	// it to access the request cookie value. If the cookie matches, the
	// registered handler will be called to process the request. Otherwise
	// the request will be skipped.
	Reader CookieReader
}

// Filter compares the cookie from the message with the given one.
//
// Cookie of each incoming request will be compared to the given cookie
// jar cookie. If the request cookie matches the registered one, the given
// handler will be used to process the request.
func (f *CookieFilter) Filter(r *Request) bool {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return false
	}

	// Parse the incoming request to access the cookies.
	jar, err := f.Reader.ReadCookie(bytes.NewBuffer(body))
	if err != nil {
		return false
	}

	r.Body = bytes.NewBuffer(body)
	return jar.Cookies() == f.Cookies
}
