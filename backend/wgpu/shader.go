package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// rectShaderWGSL draws one glyph rectangle per instance: the vertex
// stage expands a compact left/top/right/bottom instance record into a
// quad, the fragment stage shifts the subpixel coverages by the glyph's
// fractional position, applies coverage adjustment, and emits two
// outputs for dual-source blending (src factor One, dst factor
// OneMinusSrc1Color) so every LCD subpixel blends with its own weight.
const rectShaderWGSL = `
enable dual_source_blending;

struct Uniforms {
    half_viewport_size: vec2<f32>,
    coverage_adjustment: f32,
    _pad: f32,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var glyph_atlas: texture_2d<f32>;

struct RectInstance {
    @location(0) pos_ltrb: vec4<f32>,
    @location(1) tex_ltrb: vec4<f32>,
    @location(2) color: vec4<f32>,
    @location(3) subpixel_shift: f32,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
    @location(1) @interpolate(flat) color: vec4<f32>,
    @location(2) @interpolate(flat) subpixel_shift: f32,
}

// Two triangles per rect; each vertex picks its corner out of the
// left/top/right/bottom vectors by component index.
const ltrb_index = array<vec2<u32>, 6>(
    vec2<u32>(0u, 1u), // left  top
    vec2<u32>(0u, 3u), // left  bottom
    vec2<u32>(2u, 1u), // right top
    vec2<u32>(0u, 3u), // left  bottom
    vec2<u32>(2u, 3u), // right bottom
    vec2<u32>(2u, 1u), // right top
);

@vertex
fn vs_main(@builtin(vertex_index) vertex_index: u32, instance: RectInstance) -> VertexOutput {
    var out: VertexOutput;

    let corner = ltrb_index[vertex_index];
    let pos = vec2<f32>(instance.pos_ltrb[corner.x], instance.pos_ltrb[corner.y]);
    out.tex_coords = vec2<f32>(instance.tex_ltrb[corner.x], instance.tex_ltrb[corner.y]);
    out.subpixel_shift = instance.subpixel_shift;

    // Pre-multiplied alpha.
    out.color = vec4<f32>(instance.color.rgb * instance.color.a, instance.color.a);

    // Pixel coordinates to NDC, y flipped to top-down.
    let ndc = (pos / uniforms.half_viewport_size - 1.0) * vec2<f32>(1.0, -1.0);
    out.position = vec4<f32>(ndc, 0.0, 1.0);
    return out;
}

struct FragmentOutput {
    @location(0) @blend_src(0) color: vec4<f32>,
    @location(0) @blend_src(1) blend_weights: vec4<f32>,
}

@fragment
fn fs_main(in: VertexOutput) -> FragmentOutput {
    // The atlas stores every glyph at subpixel shift 0. Cross-fade the
    // coverages of this texel and its left neighbor by the fractional
    // glyph position (Rougier, Higher Quality 2D Text Rendering,
    // JCGT 2013, listing 2).
    let coords = vec2<i32>(in.tex_coords);
    let current = textureLoad(glyph_atlas, coords, 0).rgb;
    let previous = textureLoad(glyph_atlas, coords + vec2<i32>(-1, 0), 0).rgb;

    var r = current.r;
    var g = current.g;
    var b = current.b;
    let shift = in.subpixel_shift;
    if shift <= 1.0 / 3.0 {
        let z = 3.0 * shift;
        r = mix(current.r, previous.b, z);
        g = mix(current.g, current.r, z);
        b = mix(current.b, current.g, z);
    } else if shift <= 2.0 / 3.0 {
        let z = 3.0 * shift - 1.0;
        r = mix(previous.b, previous.g, z);
        g = mix(current.r, previous.b, z);
        b = mix(current.g, current.r, z);
    } else if shift < 1.0 {
        let z = 3.0 * shift - 2.0;
        r = mix(previous.g, previous.r, z);
        g = mix(previous.b, previous.g, z);
        b = mix(current.r, previous.b, z);
    }
    var coverages = vec3<f32>(r, g, b);

    // Linear coverage adjustment: positive steepens the gradient from
    // coverage 0 (bolder), negative from coverage 1 (thinner).
    let adj = uniforms.coverage_adjustment;
    if adj >= 0.0 {
        coverages = min(coverages * (1.0 + adj), vec3<f32>(1.0));
    } else {
        coverages = max(1.0 - (1.0 - coverages) * (1.0 - adj), vec3<f32>(0.0));
    }

    var out: FragmentOutput;
    out.color = in.color * vec4<f32>(coverages, 1.0);
    out.blend_weights = vec4<f32>(in.color.a * coverages, in.color.a);
    return out;
}
`

// compileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return spirvCode, nil
}
