/*
Package dsl provides the fluent construction API for drama graphs.

A Builder accumulates steps; Step opens one and returns a StepScope on which
lines, choices, jumps, flag mutations and dispatches are emitted. Rows keep
their call order, which the engine relies on to evaluate branches top to
bottom. Structural problems never abort construction: they are reported by
Finalize, together with any flag-schema violations, so authors can iterate on
broken content and still get a table out.

Example usage:

	package main

	import (
		"github.com/aretw0/drama/pkg/domain"
		"github.com/aretw0/drama/pkg/dsl"
		"github.com/aretw0/drama/pkg/flags"
	)

	func main() {
		reg := flags.NewRegistry("drama.")
		reg.MustRegister(flags.Bool("drama.met_guide"))

		b := dsl.New("guide", dsl.WithRegistry(reg))
		shop := b.Label("shop")

		b.Step("main").
			BranchIf("drama.met_guide", domain.OpEq, 1, shop).
			Say("guide_hello", dsl.T("はじめまして", "Nice to meet you")).
			SetFlag("drama.met_guide", true).
			Jump(shop)

		b.Step(shop).
			Say("guide_shop", dsl.T("何にする?", "What will it be?")).
			Choice("_buy", dsl.T("買う", "Buy")).
			Choice("_sell", dsl.T("売る", "Sell")).
			OnCancel("_bye")

		res := b.Finalize()
		// res.Warnings, res.Violations, res.Table()
	}
*/
package dsl
