// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

//go:build integration

package integration

import (
	"errors"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/cifkit/cif/pkg/cif"
	"github.com/cifkit/cif/pkg/ciferr"
	"github.com/cifkit/cif/pkg/cifast"
	"github.com/cifkit/cif/pkg/dict"
	"github.com/cifkit/cif/pkg/validate"
)

var _ = Describe("CIF 1.1 simple block (S1)", func() {
	It("resolves three scalar items and reports version 1.1", func() {
		result, err := cif.Parse("data_test\n_tag1 value1\n_tag2 'quoted value'\n_tag3 123.45\n")
		Expect(err).NotTo(HaveOccurred())

		block, ok := result.Document.GetBlock("test")
		Expect(ok).To(BeTrue())
		Expect(result.Document.Blocks).To(HaveLen(1))

		v1, ok := block.GetItem("_tag1")
		Expect(ok).To(BeTrue())
		Expect(v1.Kind).To(Equal(cifast.KindText))
		text1, _ := v1.AsText()
		Expect(text1).To(Equal("value1"))

		v2, ok := block.GetItem("_tag2")
		Expect(ok).To(BeTrue())
		text2, _ := v2.AsText()
		Expect(text2).To(Equal("quoted value"))

		v3, ok := block.GetItem("_tag3")
		Expect(ok).To(BeTrue())
		n3, ok := v3.AsNumeric()
		Expect(ok).To(BeTrue())
		Expect(n3).To(Equal(123.45))

		Expect(result.Document.Dialect).To(Equal(cifast.V1_1))
	})
})

var _ = Describe("Loop with three columns (S2)", func() {
	It("builds one loop with three tags and three rows", func() {
		text := "data_test\nloop_\n_atom.id\n_atom.type\n_atom.x\n1 C 1.0\n2 N 2.0\n3 O 3.0\n"
		result, err := cif.Parse(text)
		Expect(err).NotTo(HaveOccurred())

		block, ok := result.Document.GetBlock("test")
		Expect(ok).To(BeTrue())
		Expect(block.Loops).To(HaveLen(1))

		loop := block.Loops[0]
		Expect(loop.Tags).To(HaveLen(3))
		Expect(loop.Len()).To(Equal(3))

		v, ok := loop.GetByTag(0, "_atom.type")
		Expect(ok).To(BeTrue())
		s, _ := v.AsText()
		Expect(s).To(Equal("C"))

		v2, ok := loop.Get(1, 2)
		Expect(ok).To(BeTrue())
		n, _ := v2.AsNumeric()
		Expect(n).To(Equal(2.0))
	})
})

var _ = Describe("Doubled-quote round trip (S3)", func() {
	It("preserves the doubled quote literally and flags it under upgrade guidance", func() {
		text := "data_test\n_item 'O''Brien'\n"

		result, err := cif.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		block, ok := result.Document.GetBlock("test")
		Expect(ok).To(BeTrue())
		v, ok := block.GetItem("_item")
		Expect(ok).To(BeTrue())
		s, _ := v.AsText()
		Expect(s).To(Equal("O''Brien"))

		withGuidance, err := cif.ParseWithOptions(text, cif.Options{UpgradeGuidance: true})
		Expect(err).NotTo(HaveOccurred())

		var ruleIDs []ciferr.RuleID
		for _, issue := range withGuidance.UpgradeIssues {
			ruleIDs = append(ruleIDs, issue.RuleID)
		}
		Expect(ruleIDs).To(ContainElements(
			ciferr.RuleMissingMagicHeader,
			ciferr.RuleNoDoubledQuotes,
		))
	})
})

var _ = Describe("CIF 2.0 list (S4)", func() {
	It("parses a bracketed list only when the magic header is present", func() {
		withMagic := "#\\#CIF_2.0\ndata_m\n_xs [1 2 3]\n"
		result, err := cif.Parse(withMagic)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Document.Dialect).To(Equal(cifast.V2_0))

		block, ok := result.Document.GetBlock("m")
		Expect(ok).To(BeTrue())
		v, ok := block.GetItem("_xs")
		Expect(ok).To(BeTrue())
		Expect(v.Kind).To(Equal(cifast.KindList))
		list, ok := v.AsList()
		Expect(ok).To(BeTrue())
		Expect(list).To(HaveLen(3))
		for i, want := range []float64{1, 2, 3} {
			n, ok := list[i].AsNumeric()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(want))
		}

		withoutMagic := "data_m\n_xs [1 2 3]\n"
		plain, err := cif.Parse(withoutMagic)
		Expect(err).NotTo(HaveOccurred())
		plainBlock, ok := plain.Document.GetBlock("m")
		Expect(ok).To(BeTrue())
		plainValue, ok := plainBlock.GetItem("_xs")
		Expect(ok).To(BeTrue())
		Expect(plainValue.Kind).To(Equal(cifast.KindText))
		plainText, _ := plainValue.AsText()
		Expect(plainText).To(Equal("[1 2 3]"))
	})
})

var _ = Describe("Misaligned loop (S5)", func() {
	It("fails resolution with loop-values-misaligned at the loop header", func() {
		text := "data_bad\nloop_\n_c1\n_c2\nonly_one_value\n"
		_, err := cif.Parse(text)
		Expect(err).To(HaveOccurred())

		var structErr *ciferr.StructureError
		Expect(errors.As(err, &structErr)).To(BeTrue())
		Expect(structErr.Message).To(ContainSubstring(string(ciferr.RuleLoopValuesMisaligned)))
		Expect(structErr.Span.StartLine).To(Equal(2))
	})
})

const s6Dictionary = `#\#CIF_2.0
data_TEST_DICT
_dictionary.title TEST_DICT
_dictionary.version 1.0.0

save_CELL
_definition.id CELL
_definition.scope Category
_definition.class Set
_name.category_id TEST_DICT
_name.object_id CELL
save_

save_cell.length_a
_definition.id '_cell.length_a'
_name.category_id cell
_name.object_id length_a
_type.purpose Number
_type.container Single
_type.contents Real
save_

save_cell.area_ab
_definition.id '_cell.area_ab'
_name.category_id cell
_name.object_id area_ab
_type.purpose Number
_type.container Single
_type.contents Real
_method.expression
;
_cell.area_ab = _cell.length_a * _cell.length_b
;
save_
`

var _ = Describe("Dictionary dREL reference check (S6)", func() {
	It("reports exactly one missing reference to the undefined length_b item", func() {
		result, err := cif.ParseWithOptions(s6Dictionary, cif.Options{Dialect: cif.DialectForce20})
		Expect(err).NotTo(HaveOccurred())

		d, loadErrs := dict.Load(result.Document)
		Expect(loadErrs).To(BeEmpty())

		errs := dict.SelfCheck(d)
		Expect(errs).To(HaveLen(1))

		var le *dict.LoadError
		Expect(errors.As(errs[0], &le)).To(BeTrue())
		Expect(le.Kind).To(Equal(dict.KindMissingDrelReference))
		Expect(le.Item).To(Equal("_cell.area_ab"))
		Expect(le.Ref).To(Equal("_cell.length_b"))
	})
})

var _ = Describe("Dictionary round trip into validation", func() {
	const cellDictionary = `#\#CIF_2.0
data_TEST_DICT
_dictionary.title TEST_DICT
_dictionary.version 1.0.0

save_CELL
_definition.id CELL
_definition.scope Category
_definition.class Set
_name.category_id TEST_DICT
_name.object_id CELL
save_

save_cell.length_a
_definition.id '_cell.length_a'
_name.category_id cell
_name.object_id length_a
_type.purpose Number
_type.container Single
_type.contents Real
_enumeration.range 0.0:
_definition.mandatory_code yes
save_

save_cell.angle_alpha
_definition.id '_cell.angle_alpha'
_name.category_id cell
_name.object_id angle_alpha
_type.purpose Number
_type.container Single
_type.contents Real
save_
`

	It("loads the dictionary once and validates two independent documents against it", func() {
		dictResult, err := cif.ParseWithOptions(cellDictionary, cif.Options{Dialect: cif.DialectForce20})
		Expect(err).NotTo(HaveOccurred())
		d, loadErrs := dict.Load(dictResult.Document)
		Expect(loadErrs).To(BeEmpty())

		goodDoc, err := cif.Parse("data_good\n_cell.length_a 10.0\n")
		Expect(err).NotTo(HaveOccurred())
		goodResult := validate.New(d, validate.Strict).Validate(goodDoc.Document)
		Expect(goodResult.IsValid()).To(BeTrue())

		badDoc, err := cif.Parse("data_bad\n_cell.length_a -5.0\n")
		Expect(err).NotTo(HaveOccurred())
		badEngine := validate.New(d, validate.Strict)
		badResult := badEngine.Validate(badDoc.Document)
		Expect(badResult.IsValid()).To(BeFalse())
		Expect(badResult.Errors[0].Category).To(Equal(validate.RangeError))

		missingDoc, err := cif.Parse("data_missing\n_cell.angle_alpha 90.0\n")
		Expect(err).NotTo(HaveOccurred())
		missingEngine := validate.New(d, validate.Lenient)
		missingResult := missingEngine.Validate(missingDoc.Document)
		Expect(missingResult.IsValid()).To(BeFalse())

		var missingMandatory bool
		for _, e := range missingResult.Errors {
			if e.Category == validate.MissingMandatory && e.DataName == "_cell.length_a" {
				missingMandatory = true
			}
		}
		Expect(missingMandatory).To(BeTrue())

		Expect(goodResult.ID).NotTo(Equal(badResult.ID))
		Expect(badEngine.Index().Len()).To(BeNumerically(">", 0))
	})
})
