package model_test

import (
	"errors"
	"testing"

	"github.com/okian/toto/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSymbol(t *testing.T) {
	Convey("Given symbol strings", t, func() {
		Convey("Then the canonical forms parse", func() {
			for in, want := range map[string]model.Symbol{"0": model.Draw, "1": model.Home, "2": model.Away} {
				got, err := model.ParseSymbol(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
				So(got.String(), ShouldEqual, in)
			}
		})

		Convey("And anything else is rejected", func() {
			for _, in := range []string{"", "3", "X", "00", " 1"} {
				_, err := model.ParseSymbol(in)
				So(errors.Is(err, model.ErrInvalidSymbol), ShouldBeTrue)
			}
		})
	})
}

func TestCombinationCounts(t *testing.T) {
	Convey("Given a column with draws at matches 3, 4, 5 and 12", t, func() {
		c, err := model.ParseCombination("1 2 0 0 0 1 1 2 2 1 1 0 2 2 1")
		So(err, ShouldBeNil)

		Convey("Then the outcome counts add up to the slate size", func() {
			So(c.Draws(), ShouldEqual, 4)
			So(c.Homes(), ShouldEqual, 6)
			So(c.Aways(), ShouldEqual, 5)
			So(c.Draws()+c.Homes()+c.Aways(), ShouldEqual, model.SlateSize)
		})

		Convey("And the group split covers the whole column", func() {
			So(c.Group1Draws(), ShouldEqual, 3)
			So(c.Group2Draws(), ShouldEqual, 1)
			So(c.Group1Draws()+c.Group2Draws(), ShouldEqual, c.Draws())
		})

		Convey("And the longest draw run is three", func() {
			So(c.LongestDrawRun(), ShouldEqual, 3)
		})

		Convey("And it renders back to the same text", func() {
			So(c.String(), ShouldEqual, "1 2 0 0 0 1 1 2 2 1 1 0 2 2 1")
		})
	})
}

func TestParseOfficialResult(t *testing.T) {
	Convey("Given official result strings", t, func() {
		Convey("When the input has 15 valid tokens with extra whitespace", func() {
			res, err := model.ParseOfficialResult("  1 1 1 1 1 1 1 0\t2 2 2 2 2 2 0 \n")

			Convey("Then it parses", func() {
				So(err, ShouldBeNil)
				So(res.String(), ShouldEqual, "1 1 1 1 1 1 1 0 2 2 2 2 2 2 0")
			})
		})

		Convey("When the input is empty", func() {
			_, err := model.ParseOfficialResult("   ")
			So(errors.Is(err, model.ErrInvalidOfficialResult), ShouldBeTrue)
		})

		Convey("When the input has 14 tokens", func() {
			_, err := model.ParseOfficialResult("1 1 1 1 1 1 1 0 2 2 2 2 2 2")
			So(errors.Is(err, model.ErrInvalidOfficialResult), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "got 14")
		})

		Convey("When a token is not a symbol", func() {
			_, err := model.ParseOfficialResult("1 1 1 1 1 1 1 X 2 2 2 2 2 2 0")
			So(errors.Is(err, model.ErrInvalidOfficialResult), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "match 8")
		})
	})
}

func TestSelectionSet(t *testing.T) {
	Convey("Given the compact picks notation", t, func() {
		Convey("When every match is picked", func() {
			sel, err := model.ParsePicks("1 10 2 012 1 1 1 1 1 1 1 1 1 1 11")

			Convey("Then symbols keep their marking order and duplicates collapse", func() {
				So(err, ShouldBeNil)
				So(sel.Symbols(2), ShouldResemble, []model.Symbol{model.Home, model.Draw})
				So(sel.Symbols(4), ShouldResemble, []model.Symbol{model.Draw, model.Home, model.Away})
				So(sel.Symbols(15), ShouldResemble, []model.Symbol{model.Home})
				So(sel.FirstEmpty(), ShouldEqual, 0)
				So(sel.OpenMatches(), ShouldEqual, 2)
				So(sel.String(), ShouldEqual, "1 10 2 012 1 1 1 1 1 1 1 1 1 1 1")
			})
		})

		Convey("When a match is left open with a dash", func() {
			sel, err := model.ParsePicks("1 1 1 1 1 1 - 1 1 1 1 1 1 1 1")
			So(err, ShouldBeNil)
			So(sel.FirstEmpty(), ShouldEqual, 7)
		})

		Convey("When the token count is wrong", func() {
			_, err := model.ParsePicks("1 1 1")
			So(errors.Is(err, model.ErrInvalidPicks), ShouldBeTrue)
		})

		Convey("When a token holds an unknown symbol", func() {
			_, err := model.ParsePicks("1 1 1 1 1 1 1 3 1 1 1 1 1 1 1")
			So(errors.Is(err, model.ErrInvalidPicks), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidSymbol), ShouldBeTrue)
		})
	})

	Convey("Given string picks from a request body", t, func() {
		sel, err := model.SelectionSetFromStrings([][]string{{"1", "0"}, {"2"}})

		Convey("Then unset matches are left empty", func() {
			So(err, ShouldBeNil)
			So(sel.Symbols(1), ShouldResemble, []model.Symbol{model.Home, model.Draw})
			So(sel.FirstEmpty(), ShouldEqual, 3)
		})
	})
}
