package qlog

import (
	"io"
	"log"
	"time"

	"github.com/francoispqt/gojay"
)

const eventChanSize = 50

const recordSeparator = 0x1e

type traceHeader struct {
	referenceTime time.Time
}

var _ gojay.MarshalerJSONObject = traceHeader{}

func (t traceHeader) IsNil() bool { return false }
func (t traceHeader) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("qlog_format", "JSON-SEQ")
	enc.StringKey("qlog_version", "0.3")
	enc.StringKey("title", "quic codec trace")
	enc.ObjectKey("trace", trace(t))
}

type trace traceHeader

var _ gojay.MarshalerJSONObject = trace{}

func (t trace) IsNil() bool { return false }
func (t trace) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("vantage_point", vantagePoint{})
	enc.ObjectKey("common_fields", commonFields(t))
}

type vantagePoint struct{}

var _ gojay.MarshalerJSONObject = vantagePoint{}

func (p vantagePoint) IsNil() bool { return false }
func (p vantagePoint) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("type", "transport")
}

type commonFields traceHeader

var _ gojay.MarshalerJSONObject = commonFields{}

func (f commonFields) IsNil() bool { return false }
func (f commonFields) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("reference_time", float64(f.referenceTime.UnixNano())/1e6)
	enc.StringKey("time_format", "relative")
}

type writer struct {
	w io.WriteCloser

	referenceTime time.Time

	events     chan event
	runStopped chan struct{}
}

func newWriter(w io.WriteCloser) *writer {
	return &writer{
		w:             w,
		referenceTime: time.Now(),
		events:        make(chan event, eventChanSize),
		runStopped:    make(chan struct{}),
	}
}

func (w *writer) RecordEvent(details eventDetails) {
	w.events <- event{
		RelativeTime: time.Since(w.referenceTime),
		eventDetails: details,
	}
}

func (w *writer) Run() {
	defer close(w.runStopped)
	enc := gojay.NewEncoder(w.w)
	if _, err := w.w.Write([]byte{recordSeparator}); err != nil {
		log.Printf("qlog: writing record separator failed: %s", err)
		return
	}
	if err := enc.Encode(traceHeader{referenceTime: w.referenceTime}); err != nil {
		log.Printf("qlog: writing trace header failed: %s", err)
		return
	}
	if _, err := w.w.Write([]byte{'\n'}); err != nil {
		return
	}
	for ev := range w.events {
		if _, err := w.w.Write([]byte{recordSeparator}); err != nil {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			log.Printf("qlog: encoding event failed: %s", err)
			continue
		}
		w.w.Write([]byte{'\n'}) //nolint:errcheck
	}
}

func (w *writer) Close() {
	close(w.events)
	<-w.runStopped
	if err := w.w.Close(); err != nil {
		log.Printf("qlog: closing writer failed: %s", err)
	}
}
