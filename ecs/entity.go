package ecs

import (
	"strconv"

	"go.uber.org/zap/zapcore"
)

// Entity is a world handle. The low 32 bits are the storage slot, the high
// 32 bits the slot's generation, so a handle kept past DestroyEntity never
// names the slot's next occupant. The zero Entity is never alive.
type Entity uint64

// Slot indexes component storage. Slot 0 is reserved.
type Slot uint32

// Generation counts how often a slot has been freed.
type Generation uint32

const slotBits = 32

func newEntity(slot Slot, gen Generation) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(slot))
}

func (e Entity) Slot() Slot { return Slot(uint32(e)) }

func (e Entity) Generation() Generation { return Generation(uint32(uint64(e) >> slotBits)) }

// Valid reports whether e was ever handed out. Use IsAlive to ask a world.
func (e Entity) Valid() bool { return e.Slot() != 0 }

// String renders slot and generation, e.g. "3v1".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Slot()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// MarshalLogObject lets systems log an entity with zap.Object.
func (e Entity) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("slot", uint32(e.Slot()))
	enc.AddUint32("gen", uint32(e.Generation()))
	return nil
}
