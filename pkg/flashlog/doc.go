// Package flashlog persists a settings record and an append-only log
// of fixed-size samples on a raw erasable partition.
package flashlog

// Layout on the partition:
//
//	offset 0        settings record {magic u32, period_ms u32,
//	                state u8, level u8, pad u16}, little-endian
//	offset LogStart log region, subdivided into erasable sectors of
//	                entries {timestamp_ms u32, value f32}
//
// The partition obeys flash discipline: reads anywhere, programming can
// only clear bits, erasing sets a whole aligned sector to 0xff. A
// sector is erased exactly once, right before the first entry written
// into it. No entry counter is persisted; the write cursor is
// reconstructed on every open by probing for the erased sentinel.
