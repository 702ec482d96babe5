/*
Package messageq implements a fixed-capacity, zero-copy message queue with
many producers and a single consumer.

Messages live in caller-owned slots. A producer claims a free slot, fills
it in place and sends it; the consumer receives the oldest sent slot,
reads it in place and releases it back to the pool. Every slot is always in
exactly one of three stages (free, claimed or full) and the sum of the
three counts equals the capacity.

Claim and Send only touch atomics and may be called from any goroutine,
including one standing in for an interrupt handler. Empty, Receive and
Release belong to the single consumer.

Slots are handed out and received in claim order. A slot that has been
claimed but not yet sent holds back delivery of the slots claimed after it.

A queue holds between 1 and 32 slots.
*/
package messageq
