package vcp

import (
	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// discover walks the session's remote database, claims the volume
// services, binds the characteristic handles, and submits the initial
// reads and notification subscriptions. It runs once per attach; a
// re-attach after detach starts over because detach clears the bound
// handles.
func (r *Registry) discover(s *Session) {
	r.mu.Lock()
	if !s.attached || s.client == nil || s.remoteDB == nil || s.discovered {
		r.mu.Unlock()
		return
	}
	s.discovered = true
	q := r.newEventQueueLocked()
	r.discoverServiceLocked(s, q, wire.VolumeControlServiceUUID)
	r.discoverServiceLocked(s, q, wire.VolumeOffsetControlServiceUUID)
	r.mu.Unlock()
	q.flush()
}

func (r *Registry) discoverServiceLocked(s *Session, q *eventQueue, u gatt.UUID16) {
	s.remoteDB.ForEachService(u, func(svc *gatt.Service) {
		svc.SetClaimed(true)
		s.debugLocked("service discovered", "conn", s.connIDLocked(),
			"service", u.String(), "handle", svc.Handle())
		q.add(discoveryEvent(s.connIDLocked(), u, 0, svc.Handle()))
		svc.ForEachCharacteristic(func(chr *gatt.Characteristic) {
			s.bindCharacteristicLocked(q, u, chr)
		})
	})
}

// bindCharacteristicLocked records the value handle for a recognized
// characteristic and, for the state-bearing ones, submits the initial
// read and the notification subscription. Only the first instance of
// each UUID is bound.
func (s *Session) bindCharacteristicLocked(q *eventQueue, service gatt.UUID16, chr *gatt.Characteristic) {
	handle := chr.ValueHandle()

	switch chr.UUID() {
	case wire.VolumeStateUUID:
		if s.remote.volumeState != 0 {
			return
		}
		s.remote.volumeState = handle
		s.watchLocked(chr, "volume state", s.consumeVolumeState)
	case wire.VolumeControlPointUUID:
		if s.remote.volumeCP != 0 {
			return
		}
		s.remote.volumeCP = handle
	case wire.VolumeFlagsUUID:
		if s.remote.volumeFlags != 0 {
			return
		}
		s.remote.volumeFlags = handle
		s.watchLocked(chr, "volume flags", s.consumeVolumeFlags)
	case wire.VolumeOffsetStateUUID:
		if s.remote.offsetState != 0 {
			return
		}
		s.remote.offsetState = handle
		s.watchLocked(chr, "volume offset state", s.consumeOffsetState)
	case wire.AudioLocationUUID:
		if s.remote.audioLocation != 0 {
			return
		}
		s.remote.audioLocation = handle
		s.watchLocked(chr, "audio location", s.consumeAudioLocation)
	case wire.VolumeOffsetControlPointUUID:
		if s.remote.offsetCP != 0 {
			return
		}
		s.remote.offsetCP = handle
	case wire.AudioOutputDescriptionUUID:
		if s.remote.outputDesc != 0 {
			return
		}
		s.remote.outputDesc = handle
		s.watchLocked(chr, "output description", s.consumeOutputDescription)
	default:
		return
	}

	s.debugLocked("characteristic bound", "conn", s.connIDLocked(),
		"service", service.String(), "characteristic", chr.UUID().String(), "handle", handle)
	q.add(discoveryEvent(s.connIDLocked(), service, chr.UUID(), handle))
}

// watchLocked primes the client mirror for one characteristic: an
// initial read when the peer allows it and a notification subscription
// when the peer advertises one. consume receives each raw value.
func (s *Session) watchLocked(chr *gatt.Characteristic, what string, consume func([]byte)) {
	handle := chr.ValueHandle()

	if chr.Properties()&gatt.PropRead != 0 {
		s.submitReadLocked(handle, func(success bool, code gatt.AttError, value []byte) {
			if !success {
				s.readFailed(what, code)
				return
			}
			consume(value)
		})
	}

	if chr.Properties()&gatt.PropNotify != 0 {
		s.subscribeNotifyLocked(handle, func(_ uint16, value []byte) {
			consume(value)
		})
	}
}
