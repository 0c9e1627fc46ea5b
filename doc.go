// Package hierbasis fits nonparametric regression models built from basis
// expansions under a hierarchical sparsity penalty: a basis function of
// degree k may enter the model only after every lower-degree function.
//
// 🚀 What is hierbasis?
//
//	A small, pure-Go toolkit on top of gonum that brings together:
//		• Hierarchical group-lasso prox in closed form (prox)
//		• λ paths and penalty increments (lambda, basis)
//		• Single-predictor path solver via orthonormalization (univariate)
//		• Sparse additive models by block coordinate descent (additive)
//		• Binary responses by proximal gradient (logistic)
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/     — column-sparse path storage, design tensors, centering, validators
//	prox/       — Hierarchical / HierarchicalTo and the per-λ Path
//	lambda/     — max_λ, log-spaced λ sequences, weight matrices
//	basis/      — centered polynomial designs and increments (k+1)^m − k^m
//	univariate/ — Solve: QR, closed-form path, back-transform
//	additive/   — Fit / FitPath: Gauss–Seidel over predictor blocks
//	logistic/   — Solve for y ∈ {0, 1} with an unpenalized intercept
//
// Quick example:
//
//	X, _, _ := basis.Polynomial(x, 10)
//	yc, _, _ := matrix.CenterVec(y)
//	ak, _ := basis.Weights(10, 2)
//	res, _ := univariate.Solve(X, yc, ak, univariate.DefaultOptions())
//
//	go get github.com/katalvlaran/hierbasis
package hierbasis
