package providers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
)

// EnvProvider names the environment variable Detect reads the host-provided transport from.
const EnvProvider = "WEB3_PROVIDER"

// Resolve turns a descriptor into a concrete Transport.
//
// A Transport is returned unchanged. A string or *url.URL is parsed with ParseDescriptor
// and the matching transport is constructed; hint is only used as the dialer for IPC
// sockets. A nil descriptor fails with ErrMissingTransport; anything else that cannot
// produce a transport fails with an error wrapping ErrInvalidTransport.
func Resolve(descriptor interface{}, hint Dialer, opts ...Option) (Transport, error) {
	switch d := descriptor.(type) {
	case nil:
		return nil, ErrMissingTransport
	case Transport:
		if isNilValue(d) {
			return nil, fmt.Errorf("%w: nil %T", ErrInvalidTransport, d)
		}
		return d, nil
	case string:
		return fromString(d, hint, opts)
	case *url.URL:
		if d == nil {
			return nil, ErrMissingTransport
		}
		return fromString(d.String(), hint, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported descriptor type %T", ErrInvalidTransport, descriptor)
	}
}

func fromString(raw string, hint Dialer, opts []Option) (Transport, error) {
	target, err := ParseDescriptor(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransport, err)
	}

	var t Transport
	switch target.Kind {
	case KindHTTP:
		t, err = NewHTTPTransport(raw, opts...)
	case KindWebsocket:
		t, err = NewWebsocketTransport(raw, opts...)
	case KindIPC:
		if hint != nil {
			opts = append(opts, WithDialer(hint))
		}
		t, err = NewIPCTransport(target.Address, opts...)
	case KindGRPC:
		t, err = NewGRPCTransport(raw, opts...)
	default:
		err = fmt.Errorf("no constructor for kind %q", target.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransport, err)
	}

	logtrace.Debug(context.Background(), "resolved transport", logtrace.Fields{
		logtrace.FieldModule:    logtrace.ValueResolver,
		logtrace.FieldTransport: target.Kind,
		logtrace.FieldTarget:    redact(raw),
	})
	return t, nil
}

// Detect returns the transport advertised by the host environment, or nil when there is
// none or it does not resolve. It never fails.
func Detect(opts ...Option) Transport {
	raw := strings.TrimSpace(os.Getenv(EnvProvider))
	if raw == "" {
		return nil
	}
	t, err := Resolve(raw, nil, opts...)
	if err != nil {
		logtrace.Debug(context.Background(), "ignoring host provided transport", logtrace.Fields{
			logtrace.FieldModule: logtrace.ValueResolver,
			logtrace.FieldTarget: redact(raw),
			logtrace.FieldError:  err.Error(),
		})
		return nil
	}
	return t
}

func isNilValue(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// redact strips credentials embedded in a descriptor before it is logged.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("xxxxx")
	return u.String()
}
