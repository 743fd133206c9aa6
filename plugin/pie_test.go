package plugin

import (
	"time"

	. "gopkg.in/check.v1"
)

type PieSuite struct {
	Pie *Pie
}

var _ = Suite(&PieSuite{})

func (p *PieSuite) SetUpTest(c *C) {
	p.Pie = NewPie("Patient/123")
	p.Pie.Slices = []Slice{
		{Name: "Age", Weight: 30, MaxValue: 79, Value: 55},
		{Name: "Smoker", Weight: 10, MaxValue: 1, Value: 0},
	}
}

func (p *PieSuite) TestNewPie(c *C) {
	pie := NewPie("Patient/123")
	c.Assert(pie.Id.Hex(), Not(Equals), "")
	c.Assert(pie.Patient, Equals, "Patient/123")
	c.Assert(time.Since(pie.Created) < (1*time.Second), Equals, true)
	c.Assert(pie.Slices, HasLen, 0)
	c.Assert(pie.Method, IsNil)
}

func (p *PieSuite) TestUpdateSliceValue(c *C) {
	p.Pie.UpdateSliceValue("Smoker", 1)
	c.Assert(p.Pie.Slices, DeepEquals, []Slice{
		{Name: "Age", Weight: 30, MaxValue: 79, Value: 55},
		{Name: "Smoker", Weight: 10, MaxValue: 1, Value: 1},
	})

	// Unknown slices are ignored
	p.Pie.UpdateSliceValue("Cherry", 3)
	c.Assert(p.Pie.Slices, HasLen, 2)
}

func (p *PieSuite) TestUpdateSliceValueCapsAtMax(c *C) {
	p.Pie.UpdateSliceValue("Age", 84)
	v, ok := p.Pie.SliceValue("Age")
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, 79)

	_, ok = p.Pie.SliceValue("Cherry")
	c.Assert(ok, Equals, false)
}

func (p *PieSuite) TestPieClone(c *C) {
	// Test initial clone
	clone := p.Pie.Clone(true)
	c.Assert(clone, Not(Equals), p.Pie)
	c.Assert(clone.Id.Hex(), Not(Equals), p.Pie.Id.Hex())
	c.Assert(clone.Created, Equals, p.Pie.Created)
	c.Assert(clone.Patient, Equals, p.Pie.Patient)
	c.Assert(&clone.Slices, Not(Equals), &p.Pie.Slices)
	c.Assert(clone.Slices, DeepEquals, p.Pie.Slices)

	// Modify clone and make sure it doesn't affect original
	clone.UpdateSliceValue("Smoker", 1)
	c.Assert(clone.Slices[1].Value, Equals, 1)
	c.Assert(p.Pie.Slices[1].Value, Equals, 0)
}

func (p *PieSuite) TestPieCloneSameID(c *C) {
	clone := p.Pie.Clone(false)
	c.Assert(clone.Id.Hex(), Equals, p.Pie.Id.Hex())
}
