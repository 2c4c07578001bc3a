package fit

import (
	"math"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// stackingPenaltyBase is the precomputed constant the stacking-penalty
// formula scales by: K = exp(-(1/2.67)^2).
const stackingPenaltyBase = 0.8691204422021602

// maxPenalizedIndex is the last (0-indexed) position considered in a
// penalized bucket; contributions beyond it are discarded entirely.
const maxPenalizedIndex = 10

// stackingExemptCategories are the source categories a penalizable
// modifier must NOT come from.
var stackingExemptCategories = map[catalog.CategoryID]struct{}{
	catalog.CategoryShip:      {},
	catalog.CategoryCharge:    {},
	catalog.CategorySkill:     {},
	catalog.CategoryImplant:   {},
	catalog.CategorySubsystem: {},
}

// evalKey identifies one in-flight (holder, attribute) evaluation for the
// cycle guard.
type evalKey struct {
	holder *Holder
	attr   catalog.AttrID
}

// evalContext carries the in-progress set for one top-level Calculator.get
// call and everything it recurses into. A fresh one is created per
// external Holder.Get call; it is never retained across calls, so cycle
// detection is local to one evaluation rather than global.
type evalContext struct {
	inProgress map[evalKey]struct{}
}

func newEvalContext() *evalContext {
	return &evalContext{inProgress: make(map[evalKey]struct{})}
}

// calculator is the on-demand memoizing evaluator for attribute reads. It
// holds no state of its own beyond a back-reference to its fit: all
// mutable state lives in each holder's attributeMap and the fit's
// linkRegister.
type calculator struct {
	fit *Fit
}

func newCalculator(f *Fit) *calculator {
	return &calculator{fit: f}
}

// get implements the read path for one (holder, attr) pair, threading ctx
// through every recursive source read so the cycle guard is shared across
// the whole evaluation.
func (c *calculator) get(h *Holder, attr catalog.AttrID, ctx *evalContext) (float64, error) {
	if attr == catalog.AttrSkillLevel && h.Type.CategoryID == catalog.CategorySkill {
		return float64(h.skillLevel), nil
	}
	key := evalKey{holder: h, attr: attr}
	if _, inFlight := ctx.inProgress[key]; inFlight {
		// Re-entry: contribute no modifier for the recursive branch,
		// equivalently treat the pending value as its base.
		if base, ok := h.Type.Attributes[attr]; ok {
			return base, nil
		}
		return 0, nil
	}

	if v, ok := h.attrs.lookup(attr); ok {
		return v, nil
	}

	ctx.inProgress[key] = struct{}{}
	defer delete(ctx.inProgress, key)

	base, hasBase := h.Type.Attributes[attr]
	affectors := c.fit.links.getAffectors(h, attr)

	if !hasBase && len(affectors) == 0 {
		return 0, ErrAttributeNotFound
	}
	v := base

	meta, hasMeta := c.fit.catalog.Attribute(attr)
	if !hasMeta {
		// Unknown attribute metadata: treat conservatively as stackable
		// (skips the penalty machinery entirely) and high-is-good.
		meta = catalog.AttributeMetadata{Stackable: true, HighIsGood: true}
	}

	var (
		preAssign  []float64
		preMul     []float64 // normal (non-penalized) pre-mul contributions
		modAddSum  float64
		postMul    []float64 // normal (non-penalized) post-mul contributions
		postAssign []float64
		penalized  = map[catalog.Operator][]float64{} // key is PreMul or PostMul only
	)

	for _, aff := range affectors {
		mod := aff.Modifier

		var modValue float64
		if mod.SrcKind == catalog.SrcValue {
			modValue = mod.SrcValue
		} else {
			sv, err := c.get(aff.Source, mod.SrcAttr, ctx)
			if err != nil {
				c.fit.logf("fit: skipping affector from type %d on attr %d: %v", aff.Source.Type.ID, mod.SrcAttr, err)
				continue
			}
			modValue = sv
		}

		penalizable := !meta.Stackable &&
			mod.SrcKind == catalog.SrcAttribute &&
			isPenalizableOperator(mod.Operator) &&
			!isExemptCategory(aff.Source.Type.CategoryID)

		normOp, normVal := normalize(mod.Operator, modValue)

		if penalizable {
			penalized[normOp] = append(penalized[normOp], normVal)
			continue
		}

		switch normOp {
		case catalog.PreAssignment:
			preAssign = append(preAssign, normVal)
		case catalog.ModAdd:
			modAddSum += normVal
		case catalog.PreMul:
			preMul = append(preMul, normVal)
		case catalog.PostMul:
			postMul = append(postMul, normVal)
		case catalog.PostAssignment:
			postAssign = append(postAssign, normVal)
		default:
			c.fit.logf("fit: skipping affector from type %d: unhandled operator %v", aff.Source.Type.ID, mod.Operator)
		}
	}

	// Fold each penalized bucket into one scalar and feed it into the
	// normal bucket of the same operator.
	for op, vals := range penalized {
		if op == catalog.PreMul {
			preMul = append(preMul, foldStackingPenalty(vals))
		} else {
			postMul = append(postMul, foldStackingPenalty(vals))
		}
	}

	// Step 7: apply normal buckets in fixed operator order.
	if len(preAssign) > 0 {
		v = pickExtreme(preAssign, meta.HighIsGood)
	}
	for _, m := range preMul {
		v *= m
	}
	v += modAddSum
	for _, m := range postMul {
		v *= m
	}
	if len(postAssign) > 0 {
		v = pickExtreme(postAssign, meta.HighIsGood)
	}

	// Step 8: capping.
	hasCap := meta.HasMax
	if hasCap {
		capVal, err := c.get(h, meta.MaxAttributeID, ctx)
		if err == nil && capVal < v {
			v = capVal
		} else if err != nil {
			hasCap = false
		}
	}

	h.attrs.memoize(attr, v, meta.MaxAttributeID, hasCap)
	return v, nil
}

// isPenalizableOperator checks the ORIGINAL (pre-normalization) operator
// against the penalizable set.
func isPenalizableOperator(op catalog.Operator) bool {
	switch op {
	case catalog.PreMul, catalog.PostMul, catalog.PreDiv, catalog.PostDiv, catalog.PostPercent:
		return true
	default:
		return false
	}
}

func isExemptCategory(cat catalog.CategoryID) bool {
	_, ok := stackingExemptCategories[cat]
	return ok
}

// normalize applies combine-time normalization, collapsing mod-sub into
// mod-add and pre-div/post-div/post-percent into their multiplicative
// counterparts.
func normalize(op catalog.Operator, val float64) (catalog.Operator, float64) {
	switch op {
	case catalog.ModSub:
		return catalog.ModAdd, -val
	case catalog.PreDiv:
		return catalog.PreMul, 1 / val
	case catalog.PostDiv:
		return catalog.PostMul, 1 / val
	case catalog.PostPercent:
		return catalog.PostMul, 1 + val/100
	default:
		return op, val
	}
}

// pickExtreme resolves competing pre-assignment/post-assignment
// contributions: the max if high_is_good, else the min.
func pickExtreme(vals []float64, highIsGood bool) float64 {
	best := vals[0]
	for _, v := range vals[1:] {
		if highIsGood {
			if v > best {
				best = v
			}
		} else {
			if v < best {
				best = v
			}
		}
	}
	return best
}

// foldStackingPenalty applies the diminishing-returns formula to one
// penalized operator bucket and folds the resulting positive/negative
// products into a single scalar.
func foldStackingPenalty(vals []float64) float64 {
	var positives, negatives []float64
	for _, v := range vals {
		if v-1 >= 0 {
			positives = append(positives, v)
		} else {
			negatives = append(negatives, v)
		}
	}

	// Strongest bonus first: descending by (v-1).
	sortDesc(positives, func(v float64) float64 { return v - 1 })
	// Strongest penalty first: ascending by (v-1), i.e. most negative first.
	sortAsc(negatives, func(v float64) float64 { return v - 1 })

	posProduct := applyPenaltySeries(positives)
	negProduct := applyPenaltySeries(negatives)
	return posProduct * negProduct
}

func applyPenaltySeries(sorted []float64) float64 {
	product := 1.0
	for i, v := range sorted {
		if i > maxPenalizedIndex {
			break
		}
		bonus := v - 1
		k := math.Pow(stackingPenaltyBase, float64(i*i))
		product *= 1 + bonus*k
	}
	return product
}

// sortDesc/sortAsc are tiny insertion sorts: penalized buckets are never
// more than a handful of modifiers, so an O(n^2) sort avoids pulling in
// sort.Slice's closure allocation for no benefit.
func sortDesc(vals []float64, key func(float64) float64) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && key(vals[j]) > key(vals[j-1]); j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}

func sortAsc(vals []float64, key func(float64) float64) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && key(vals[j]) < key(vals[j-1]); j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}
