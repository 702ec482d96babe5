package pt

import (
	"fmt"
	"math"
)

// A Token records where a suspended program resumes. The zero value is
// [Start]. A token must only be interpreted by the program that wrote it.
type Token uint16

// Start is the token of a program that has not run yet.
const Start Token = 0

// Init resets the token so that the next run starts from the beginning.
func (t *Token) Init() {
	*t = Start
}

type opcode uint8

const (
	opDo opcode = iota
	opWait
	opYield
	opExit
	opFail
	opJump
	opJumpUnless
	opSpawn
)

type instr[T any] struct {
	op     opcode
	do     func(T)
	cond   func(T) bool
	target int

	// set for opSpawn
	step  func(T) Status
	done  func(T, Status)
	abort bool
}

// A Program is a compiled resumable task body operating on an environment
// of type T. Programs are immutable and may be shared between any number of
// tasks, each with its own environment and token.
type Program[T any] struct {
	code   []instr[T]
	resume []bool
}

// Stmt is a statement of a [Program].
type Stmt[T any] interface {
	compile(c *compiler[T])
}

type stmtFunc[T any] func(c *compiler[T])

func (f stmtFunc[T]) compile(c *compiler[T]) { f(c) }

type compiler[T any] struct {
	code []instr[T]
}

func (c *compiler[T]) emit(in instr[T]) int {
	c.code = append(c.code, in)
	return len(c.code) - 1
}

func (c *compiler[T]) block(body []Stmt[T]) {
	for _, s := range body {
		s.compile(c)
	}
}

// New compiles body into a Program. It panics if the program is too large
// to be addressed by a Token.
func New[T any](body ...Stmt[T]) *Program[T] {
	var c compiler[T]
	c.block(body)
	if len(c.code) > math.MaxUint16-2 {
		panic(fmt.Sprintf("pt: program of %d instructions does not fit a token", len(c.code)))
	}

	p := &Program[T]{
		code:   c.code,
		resume: make([]bool, len(c.code)+2),
	}
	p.resume[0] = true
	for pc, in := range p.code {
		switch in.op {
		case opWait, opSpawn:
			p.resume[pc] = true
		case opYield:
			p.resume[pc+1] = true
		}
	}
	p.resume[p.exited()] = true
	p.resume[p.failed()] = true
	return p
}

func (p *Program[T]) exited() int { return len(p.code) }
func (p *Program[T]) failed() int { return len(p.code) + 1 }

// Run runs the program with env from the position stored in tok until the
// program suspends or terminates, and updates tok accordingly. A program
// that already terminated keeps reporting its terminal status. If tok does
// not address a resumption point of this program Run returns [Corrupted]
// and leaves tok unchanged.
func (p *Program[T]) Run(env T, tok *Token) Status {
	pc := int(*tok)
	if pc >= len(p.resume) || !p.resume[pc] {
		return Corrupted
	}
	if pc == p.failed() {
		return Failed
	}

	for pc < len(p.code) {
		in := &p.code[pc]
		switch in.op {
		case opDo:
			in.do(env)
			pc++
		case opWait:
			if !in.cond(env) {
				*tok = Token(pc)
				return Waiting
			}
			pc++
		case opYield:
			*tok = Token(pc + 1)
			return Yielded
		case opExit:
			*tok = Token(p.exited())
			return Exited
		case opFail:
			*tok = Token(p.failed())
			return Failed
		case opJump:
			pc = in.target
		case opJumpUnless:
			if in.cond(env) {
				pc++
			} else {
				pc = in.target
			}
		case opSpawn:
			status := in.step(env)
			if !status.Terminal() {
				*tok = Token(pc)
				return status
			}
			if status != Exited && in.abort {
				*tok = Token(p.failed())
				return status
			}
			if in.done != nil {
				in.done(env, status)
			}
			pc++
		default:
			panic(in.op)
		}
	}

	*tok = Token(p.exited())
	return Exited
}

// Do runs fn and continues.
func Do[T any](fn func(env T)) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opDo, do: fn})
	})
}

// WaitUntil suspends with [Waiting] until cond holds. The condition is
// evaluated again every time the program is resumed at this point.
func WaitUntil[T any](cond func(env T) bool) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opWait, cond: cond})
	})
}

// Yield suspends once with [Yielded].
func Yield[T any]() Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opYield})
	})
}

// Exit terminates the program with [Exited].
func Exit[T any]() Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opExit})
	})
}

// Fail terminates the program with [Failed].
func Fail[T any]() Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opFail})
	})
}

// If runs then when cond holds.
func If[T any](cond func(env T) bool, then ...Stmt[T]) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		skip := c.emit(instr[T]{op: opJumpUnless, cond: cond})
		c.block(then)
		c.code[skip].target = len(c.code)
	})
}

// IfElse runs then when cond holds and otherwise runs otherwise.
func IfElse[T any](cond func(env T) bool, then []Stmt[T], otherwise []Stmt[T]) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		skip := c.emit(instr[T]{op: opJumpUnless, cond: cond})
		c.block(then)
		end := c.emit(instr[T]{op: opJump})
		c.code[skip].target = len(c.code)
		c.block(otherwise)
		c.code[end].target = len(c.code)
	})
}

// While runs body for as long as cond holds. cond is checked before every
// iteration.
func While[T any](cond func(env T) bool, body ...Stmt[T]) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		top := len(c.code)
		exit := c.emit(instr[T]{op: opJumpUnless, cond: cond})
		c.block(body)
		c.emit(instr[T]{op: opJump, target: top})
		c.code[exit].target = len(c.code)
	})
}

// Forever runs body until the program exits from inside it. A body that
// never suspends loops without returning.
func Forever[T any](body ...Stmt[T]) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		top := len(c.code)
		c.block(body)
		c.emit(instr[T]{op: opJump, target: top})
	})
}

// Spawn runs child to completion before continuing. bind returns the
// child's environment and token; the token is reset once when the spawn
// begins. While the child suspends the parent suspends with the same
// status. If the child fails or is corrupted the parent terminates with
// the child's status.
func Spawn[T, C any](child *Program[C], bind func(env T) (C, *Token)) Stmt[T] {
	return spawn(child, bind, nil, true)
}

// Call is like [Spawn] but never terminates the parent: once the child
// terminates, done receives its terminal status and the parent continues.
// done may be nil.
func Call[T, C any](child *Program[C], bind func(env T) (C, *Token), done func(env T, status Status)) Stmt[T] {
	return spawn(child, bind, done, false)
}

func spawn[T, C any](child *Program[C], bind func(T) (C, *Token), done func(T, Status), abort bool) Stmt[T] {
	return stmtFunc[T](func(c *compiler[T]) {
		c.emit(instr[T]{op: opDo, do: func(env T) {
			_, tok := bind(env)
			tok.Init()
		}})
		c.emit(instr[T]{
			op: opSpawn,
			step: func(env T) Status {
				childEnv, tok := bind(env)
				return child.Run(childEnv, tok)
			},
			done:  done,
			abort: abort,
		})
	})
}
