package descriptor

// PatternVariants exports patternVariants for testing.
var PatternVariants = patternVariants

// NormalizePattern exports normalizePattern for testing.
var NormalizePattern = normalizePattern

// FromTree exports fromTree for testing.
var FromTree = fromTree
