/*
Package pt implements stackless resumable tasks ("protothreads").

A task is a [Program] compiled from a small set of statements. Running a
program interprets it from the instruction addressed by a [Token], the
persistent resumption marker that is owned by whatever structure embeds it.
When the program suspends it stores the current position in the token and
returns; the next call continues from that position. Nothing survives a
suspension except the token and the environment value passed to
[Program.Run], so all live state has to be kept in the environment.

Programs distinguish yielding from waiting. [Yield] always suspends once
and reports [Yielded]. [WaitUntil] only suspends while its condition is
false and reports [Waiting]; when it is resumed and the condition has become
true execution falls through without returning, so a single call can clear
several waits in a row.

	type counter struct {
		n   int
		tok pt.Token
	}

	var countToThree = pt.New(
		pt.While(func(c *counter) bool { return c.n < 3 },
			pt.Do(func(c *counter) { c.n++ }),
			pt.Yield[*counter](),
		),
	)

	c := &counter{}
	for countToThree.Run(c, &c.tok) != pt.Exited {
	}

Programs nest with [Spawn] and [Call], which run a child program to
completion across as many calls as it needs before the parent continues.
*/
package pt
