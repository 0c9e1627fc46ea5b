// Package prox evaluates the proximal operator of the hierarchical
// (nested) group-lasso penalty.
//
// 🚀 What is the hierarchical prox?
//
//	For a vector v of length p and non-negative weights w it returns
//
//	  β = argmin  ½‖v − β‖² + Σ_{j=0}^{p−1} w[j]·‖β[j:p]‖₂
//
//	The penalty acts on nested suffixes of β, so once ‖β[j:p]‖ is shrunk to
//	zero every later coefficient is exactly zero: earlier basis functions
//	enter the model before later ones.
//
// ✨ Key features:
//   - closed form: one backward pass of block soft-thresholding over suffixes
//   - Hierarchical / HierarchicalTo for one weight vector
//   - Path for a whole matrix of per-λ weight columns, stored sparse,
//     optionally evaluated on several goroutines (WithWorkers)
//
// ⚙️ Usage:
//
//	beta, err := prox.Hierarchical(v, w)
//	path, err := prox.Path(v, weights, prox.WithWorkers(4))
//
// Performance:
//
//   - Time:   O(p²) per weight vector (suffix norms are recomputed at each step)
//   - Memory: O(p) per worker plus the sparse result
package prox
