package rts

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"
)

// Digest returns a canonical sha256 over the full domain state. Every
// participant replaying the same action journal must arrive at the same
// digest; iteration order is made deterministic by sorting keys.
func (e *Engine) Digest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, e.campaignSeq)
	if e.campaign != nil {
		digestWriteU64(h, &tmp, e.campaign.ID)
		digestWriteU64(h, &tmp, e.campaign.Start)
		digestWriteU64(h, &tmp, e.campaign.Duration)
		for _, v := range e.campaign.Stock {
			digestWriteI64(h, &tmp, v)
		}
	}

	ids := make([]string, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := e.players[PlayerID(id)]
		h.Write([]byte(id))
		digestWriteI64(h, &tmp, p.Pawns)
		for _, v := range p.Resources {
			digestWriteI64(h, &tmp, v)
		}
		for _, v := range p.Town.Defenses {
			digestWriteI64(h, &tmp, v)
		}
		for _, v := range p.Town.Army {
			digestWriteI64(h, &tmp, v)
		}
		digestWriteU64(h, &tmp, p.LastRaid)
		for r := 0; r < NumGatherResources; r++ {
			for s := 0; s < MaxGatherSlots; s++ {
				digestWriteI64(h, &tmp, p.Expeditions[r][s].PawnsSent)
				digestWriteU64(h, &tmp, p.Expeditions[r][s].StartedTick)
			}
		}
		digestWriteI64(h, &tmp, p.Refine.Pawns)
		digestWriteI64(h, &tmp, p.Refine.Wood)
		digestWriteI64(h, &tmp, p.Refine.Rock)
		digestWriteU64(h, &tmp, p.Refine.StartedTick)
		for t := 0; t < NumUnitTypes; t++ {
			digestWriteI64(h, &tmp, p.Training[t].Pawns)
			digestWriteU64(h, &tmp, p.Training[t].StartedTick)
		}
	}

	keys := make([]raidKey, 0, len(e.raids))
	for k := range e.raids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Invader != keys[j].Invader {
			return keys[i].Invader < keys[j].Invader
		}
		return keys[i].Defender < keys[j].Defender
	})
	for _, k := range keys {
		r := e.raids[k]
		h.Write([]byte(k.Invader))
		h.Write([]byte{0})
		h.Write([]byte(k.Defender))
		for _, v := range r.Army {
			digestWriteI64(h, &tmp, v)
		}
		h.Write([]byte{boolByte(r.Resolved), boolByte(r.Won)})
		digestWriteU64(h, &tmp, r.StartedTick)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hash.Hash, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
