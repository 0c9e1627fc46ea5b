// Package additive fits sparse additive hierarchical basis models by block
// coordinate descent.
//
// 🚀 Model
//
//	y ≈ Σ_j X_j·β_j, one n×J basis slab X_j per predictor, each block
//	penalized by the hierarchical prox weights of its λ column.
//
// Algorithm (per λ, Gauss–Seidel):
//  1. old ← β.
//  2. For each block j: r_j = y − Σ_k X_kβ_k + X_jβ_j, v_j = X_jᵀr_j/n,
//     β_j ← prox.Hierarchical(v_j, w_j), refresh X_jβ_j before block j+1.
//  3. Stop when |‖β‖ − ‖old‖| < Tol (NormDifference) or ‖β − old‖ < Tol
//     (Strict), or after MaxIter sweeps.
//
// Non-convergence is not an error: the λ column keeps the last iterate,
// its Status is IterationCapReached and a warning is logged.
//
// ⚙️ Usage:
//
//	X, _, _ := basis.Tensor(xs, 6)
//	ak, _ := basis.Weights(6, 2)
//	res, err := additive.FitPath(yc, X, ak, additive.DefaultPathOptions())
package additive
