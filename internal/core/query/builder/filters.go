package builder

import "github.com/satishbabariya/querycatalog/internal/core/query/domain"

// Filter helpers for building conditions with a fluent API.

// Equals creates an equals condition.
func Equals(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Equals, Value: value}
}

// NotEquals creates a not equals condition.
func NotEquals(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.NotEquals, Value: value}
}

// In creates an in condition. values is a slice or a *domain.Query projecting one column.
func In(left domain.Expr, values interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.In, Value: values}
}

// NotIn creates a not in condition.
func NotIn(left domain.Expr, values interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.NotIn, Value: values}
}

// Lt creates a less than condition.
func Lt(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Lt, Value: value}
}

// Lte creates a less than or equal condition.
func Lte(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Lte, Value: value}
}

// Gt creates a greater than condition.
func Gt(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Gt, Value: value}
}

// Gte creates a greater than or equal condition.
func Gte(left domain.Expr, value interface{}) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Gte, Value: value}
}

// Contains creates a contains condition.
func Contains(left domain.Expr, substring string) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.Contains, Value: substring}
}

// StartsWith creates a starts with condition.
func StartsWith(left domain.Expr, prefix string) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.StartsWith, Value: prefix}
}

// EndsWith creates an ends with condition.
func EndsWith(left domain.Expr, suffix string) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.EndsWith, Value: suffix}
}

// IsNull creates an is null condition.
func IsNull(left domain.Expr) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.IsNull}
}

// IsNotNull creates an is not null condition.
func IsNotNull(left domain.Expr) domain.Condition {
	return domain.Condition{Left: left, Operator: domain.IsNotNull}
}

// Exists creates a condition that holds when sub returns at least one row.
func Exists(sub *QueryBuilder) domain.Condition {
	return domain.Condition{Operator: domain.Exists, Value: sub.GetQuery()}
}
